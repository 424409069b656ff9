package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-db notes database file path
//	-snapshots-dir server snapshot directory
//	-backend backend kind (file, http, s3)
//	-backend-dir file backend directory
//	-backend-url http backend base URL
//	-backend-login http backend login
//	-backend-password http backend password
//	-backend-timeout http backend request timeout (e.g., "15s")
//	-s3-bucket s3 backend bucket
//	-s3-key s3 backend object key
//	-s3-region s3 backend region override
//	-s3-endpoint s3 backend endpoint override
//	-sync-debug enable sync diagnostic summaries
//	-sync-interval background sync interval (e.g., "5m")
//	-login server account login
//	-password-hash bcrypt hash of the server account password
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var dbPath string
	var snapshotsDir string
	var backendKind string
	var backendDir string
	var backendURL string
	var backendLogin string
	var backendPassword string
	var backendTimeout time.Duration
	var s3Bucket, s3Key, s3Region, s3Endpoint string
	var syncDebug bool
	var syncInterval time.Duration
	var login string
	var passwordHash string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var jsonConfigPath string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&dbPath, "db", "", "Notes database file path")
	flag.StringVar(&snapshotsDir, "snapshots-dir", "", "Server snapshot directory")
	flag.StringVar(&backendKind, "backend", "", "Backend kind (file, http, s3)")
	flag.StringVar(&backendDir, "backend-dir", "", "File backend directory")
	flag.StringVar(&backendURL, "backend-url", "", "HTTP backend base URL")
	flag.StringVar(&backendLogin, "backend-login", "", "HTTP backend login")
	flag.StringVar(&backendPassword, "backend-password", "", "HTTP backend password")
	flag.DurationVar(&backendTimeout, "backend-timeout", 0, "HTTP backend request timeout (e.g., 15s)")
	flag.StringVar(&s3Bucket, "s3-bucket", "", "S3 backend bucket")
	flag.StringVar(&s3Key, "s3-key", "", "S3 backend object key")
	flag.StringVar(&s3Region, "s3-region", "", "S3 backend region override")
	flag.StringVar(&s3Endpoint, "s3-endpoint", "", "S3 backend endpoint override")
	flag.BoolVar(&syncDebug, "sync-debug", false, "Enable sync diagnostic summaries")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval (e.g., 5m)")
	flag.StringVar(&login, "login", "", "Server account login")
	flag.StringVar(&passwordHash, "password-hash", "", "Bcrypt hash of the server account password")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Auth: Auth{
			Login:         login,
			PasswordHash:  passwordHash,
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Storage: Storage{
			DB: DB{
				Path: dbPath,
			},
			Snapshots: Snapshots{
				Dir: snapshotsDir,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Backend: Backend{
			Kind: backendKind,
			File: FileBackend{Dir: backendDir},
			HTTP: HTTPBackend{
				BaseURL:  backendURL,
				Login:    backendLogin,
				Password: backendPassword,
				Timeout:  backendTimeout,
			},
			S3: S3Backend{
				Bucket:   s3Bucket,
				Key:      s3Key,
				Region:   s3Region,
				Endpoint: s3Endpoint,
			},
		},
		Sync:         Sync{Debug: syncDebug},
		Workers:      Workers{SyncInterval: syncInterval},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string so the merge
// step does not override addresses from other sources.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
