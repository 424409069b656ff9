package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for go-note-sync.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Auth holds the snapshot server's single-account credentials and JWT
	// token parameters.
	Auth Auth `envPrefix:"AUTH_"`

	// Storage holds the local notes database path and the server-side
	// snapshot directory.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the snapshot
	// server.
	Server Server `envPrefix:"SERVER_"`

	// Backend selects and configures the snapshot transport used by the
	// sync client.
	Backend Backend `envPrefix:"BACKEND_"`

	// Sync holds settings of the sync protocol itself.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds configuration for the background sync job.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Auth holds the server account and token lifecycle settings.
type Auth struct {
	// Login is the single account login the server accepts.
	// Env: AUTH_LOGIN
	Login string `env:"LOGIN"`

	// PasswordHash is the bcrypt hash of the account password. The plaintext
	// password is never configured on the server side.
	// Env: AUTH_PASSWORD_HASH
	PasswordHash string `env:"PASSWORD_HASH"`

	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Must be kept confidential.
	// Env: AUTH_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a JWT token remains valid after
	// issuance (e.g. "1h", "30m").
	// Env: AUTH_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// Storage groups the persistence settings of both sides of the system.
type Storage struct {
	// DB holds the local notes database settings.
	DB DB `envPrefix:"DB_"`

	// Snapshots holds the server-side snapshot directory settings.
	Snapshots Snapshots `envPrefix:"SNAPSHOTS_"`
}

// DB holds the local SQLite notes database settings.
type DB struct {
	// Path is the filesystem path of the notes database file.
	// Env: STORAGE_DB_PATH
	Path string `env:"PATH"`
}

// Snapshots holds the directory where the snapshot server keeps the
// authoritative snapshot file.
type Snapshots struct {
	// Dir is the directory path. The server creates it on startup if absent.
	// Env: STORAGE_SNAPSHOTS_DIR
	Dir string `env:"DIR"`
}

// Server holds network and timeout settings for the snapshot server.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Backend kind labels accepted in [Backend.Kind].
const (
	BackendFile = "file"
	BackendHTTP = "http"
	BackendS3   = "s3"
)

// Backend selects and configures the snapshot transport.
type Backend struct {
	// Kind selects the transport: "file", "http", or "s3".
	// Env: BACKEND_KIND
	Kind string `env:"KIND"`

	// File configures the filesystem transport.
	File FileBackend `envPrefix:"FILE_"`

	// HTTP configures the snapshot-server transport.
	HTTP HTTPBackend `envPrefix:"HTTP_"`

	// S3 configures the object-storage transport.
	S3 S3Backend `envPrefix:"S3_"`
}

// FileBackend holds settings of the filesystem snapshot transport.
type FileBackend struct {
	// Dir is the directory holding the remote snapshot file, typically a
	// mounted network share or a synced folder.
	// Env: BACKEND_FILE_DIR
	Dir string `env:"DIR"`
}

// HTTPBackend holds settings of the snapshot-server transport.
type HTTPBackend struct {
	// BaseURL is the server base URL (e.g. "https://notes.example.com").
	// Env: BACKEND_HTTP_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// Login is the account login used against the server.
	// Env: BACKEND_HTTP_LOGIN
	Login string `env:"LOGIN"`

	// Password is the account password used against the server.
	// Env: BACKEND_HTTP_PASSWORD
	Password string `env:"PASSWORD"`

	// Timeout is the per-request timeout (e.g. "15s").
	// Env: BACKEND_HTTP_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// S3Backend holds settings of the object-storage snapshot transport.
type S3Backend struct {
	// Bucket is the bucket holding the snapshot object.
	// Env: BACKEND_S3_BUCKET
	Bucket string `env:"BUCKET"`

	// Key is the object key of the snapshot.
	// Env: BACKEND_S3_KEY
	Key string `env:"KEY"`

	// Region overrides the SDK-resolved AWS region when non-empty.
	// Env: BACKEND_S3_REGION
	Region string `env:"REGION"`

	// Endpoint overrides the S3 endpoint (e.g. a MinIO address).
	// Env: BACKEND_S3_ENDPOINT
	Endpoint string `env:"ENDPOINT"`
}

// Sync holds settings of the sync protocol.
type Sync struct {
	// Debug enables the best-effort diagnostic summaries before and after
	// the merge. It is passed to the orchestrator at construction so tests
	// never need to manipulate the process environment.
	// Env: SYNC_DEBUG
	Debug bool `env:"DEBUG"`
}

// Workers holds configuration for the background sync job.
type Workers struct {
	// SyncInterval defines how often the background job runs a full sync
	// (e.g. "5m"). Zero disables the job.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. Sources are merged in order; a later source only fills
// fields the earlier ones left empty:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
