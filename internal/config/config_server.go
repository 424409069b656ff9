package config

import (
	"fmt"
	"time"
)

// ServerConfig is the snapshot-server configuration view assembled from
// [StructuredConfig].
type ServerConfig struct {
	// Auth contains the account credentials and token settings.
	Auth Auth
	// Server contains listen address and timeout settings.
	Server Server
	// SnapshotsDir is the directory holding the authoritative snapshot.
	SnapshotsDir string
}

// GetServerConfig builds and validates a server-specific config view from the
// merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		Auth:         cfg.Auth,
		Server:       cfg.Server,
		SnapshotsDir: cfg.Storage.Snapshots.Dir,
	}
	if serverCfg.Auth.TokenDuration == 0 {
		serverCfg.Auth.TokenDuration = time.Hour
	}
	if serverCfg.Server.RequestTimeout == 0 {
		serverCfg.Server.RequestTimeout = 30 * time.Second
	}

	return serverCfg, serverCfg.validate()
}
