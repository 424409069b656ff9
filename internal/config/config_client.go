package config

import (
	"fmt"
	"time"
)

// ClientStorage groups client storage settings.
type ClientStorage struct {
	// DB holds the local notes database settings.
	DB DB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the background sync job runs.
	// Zero disables the job.
	SyncInterval time.Duration
}

// ClientConfig is the sync-client configuration view assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Storage contains local storage settings.
	Storage ClientStorage
	// Backend contains snapshot transport settings.
	Backend Backend
	// Sync contains sync protocol settings.
	Sync Sync
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Storage: ClientStorage{
			DB: cfg.Storage.DB,
		},
		Backend: cfg.Backend,
		Sync:    cfg.Sync,
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
	}

	return clientCfg, clientCfg.validate()
}
