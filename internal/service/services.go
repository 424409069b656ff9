package service

import (
	"fmt"

	"github.com/MKhiriev/go-note-sync/internal/config"
	"github.com/MKhiriev/go-note-sync/internal/logger"
)

// NewServices wires the server's service layer from its configuration.
func NewServices(cfg *config.ServerConfig, log *logger.Logger) (*Services, error) {
	snapshots, err := NewSnapshotService(cfg.SnapshotsDir, log)
	if err != nil {
		return nil, fmt.Errorf("error creating snapshot service: %w", err)
	}

	return &Services{
		AuthService:     NewAuthService(cfg.Auth, log),
		SnapshotService: snapshots,
	}, nil
}
