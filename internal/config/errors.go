package config

import "errors"

// Validation errors returned by the config views when required configuration
// groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, empty database path or unsupported in-memory path).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidBackendConfigs indicates an unknown backend kind or missing
	// settings for the selected kind.
	ErrInvalidBackendConfigs = errors.New("invalid backend configuration")
	// ErrInvalidServerConfigs indicates invalid snapshot server settings
	// (for example, missing listen address or snapshot directory).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAuthConfigs indicates incomplete server account or token
	// settings.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
)
