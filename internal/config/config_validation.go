package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Only view-level validation is meaningful here; the container accepts any
// combination because the client and the server consume different subsets.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.Path == "" || strings.Contains(cfg.Storage.DB.Path, "memory") {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Backend.Kind {
	case BackendFile:
		if cfg.Backend.File.Dir == "" {
			return ErrInvalidBackendConfigs
		}
	case BackendHTTP:
		if cfg.Backend.HTTP.BaseURL == "" {
			return ErrInvalidBackendConfigs
		}
	case BackendS3:
		if cfg.Backend.S3.Bucket == "" || cfg.Backend.S3.Key == "" {
			return ErrInvalidBackendConfigs
		}
	default:
		return ErrInvalidBackendConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.SnapshotsDir == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Auth.Login == "" || cfg.Auth.PasswordHash == "" || cfg.Auth.TokenSignKey == "" {
		return ErrInvalidAuthConfigs
	}

	return nil
}
