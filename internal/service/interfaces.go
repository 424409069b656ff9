// Package service holds the snapshot server's business logic: single-account
// authentication with JWT issuance, and storage of the authoritative
// snapshot file.
package service

import (
	"context"
	"io"

	"github.com/MKhiriev/go-note-sync/models"
)

// AuthService authenticates the configured account and manages JWT tokens.
type AuthService interface {
	// Login verifies the credentials and issues a signed token.
	Login(ctx context.Context, credentials models.Credentials) (models.Token, error)

	// ParseToken verifies a compact token string and returns its claims.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// SnapshotService stores and serves the authoritative snapshot file.
type SnapshotService interface {
	// Save atomically replaces the stored snapshot with the content of r.
	Save(ctx context.Context, r io.Reader) (models.SnapshotInfo, error)

	// Open returns a reader over the stored snapshot together with its
	// metadata. Fails with ErrSnapshotNotFound when nothing is stored yet.
	Open(ctx context.Context) (io.ReadCloser, models.SnapshotInfo, error)

	// Info describes the stored snapshot without opening it.
	// Fails with ErrSnapshotNotFound when nothing is stored yet.
	Info(ctx context.Context) (models.SnapshotInfo, error)
}

// Services aggregates the server's service layer.
type Services struct {
	AuthService     AuthService
	SnapshotService SnapshotService
}
