// Package backend abstracts where the remote snapshot lives. A backend only
// moves one opaque file: it never inspects the snapshot's content.
package backend

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-sync/internal/config"
	"github.com/MKhiriev/go-note-sync/internal/logger"
)

//go:generate mockgen -source=backend.go -destination=../mock/mock_backend.go -package=mock

// Backend transfers the remote snapshot as a whole file.
type Backend interface {
	// Download fetches the remote snapshot into the file at dest. It returns
	// false with a nil error when no snapshot exists yet.
	Download(ctx context.Context, dest string) (bool, error)

	// Upload publishes the file at src as the new remote snapshot,
	// replacing any previous one.
	Upload(ctx context.Context, src string) error
}

// New constructs the backend selected by cfg.Kind.
func New(cfg config.Backend, log *logger.Logger) (Backend, error) {
	switch cfg.Kind {
	case config.BackendFile:
		return NewFileBackend(cfg.File, log)
	case config.BackendHTTP:
		return NewHTTPBackend(cfg.HTTP, log)
	case config.BackendS3:
		return NewS3Backend(cfg.S3, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Kind)
	}
}
