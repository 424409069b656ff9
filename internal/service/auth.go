package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-note-sync/internal/config"
	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/utils"
	"github.com/MKhiriev/go-note-sync/models"
)

// authService implements AuthService for the server's single account. The
// configured password hash is bcrypt; the plaintext never reaches the server
// configuration.
type authService struct {
	login        string
	passwordHash string

	tokenSignKey  string
	tokenIssuer   string
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService from the server auth settings.
// The returned service is read-only after construction and safe for
// concurrent use.
func NewAuthService(cfg config.Auth, log *logger.Logger) AuthService {
	return &authService{
		login:         cfg.Login,
		passwordHash:  cfg.PasswordHash,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        log,
	}
}

// Login verifies the credentials against the configured account and issues
// a signed JWT. Wrong login and wrong password are indistinguishable to the
// caller.
func (a *authService) Login(ctx context.Context, credentials models.Credentials) (models.Token, error) {
	log := logger.FromContext(ctx)

	if credentials.Login == "" || credentials.Password == "" {
		log.Error().Str("login", credentials.Login).Msg("invalid credentials provided")
		return models.Token{}, ErrInvalidDataProvided
	}

	if credentials.Login != a.login {
		log.Error().Str("login", credentials.Login).Msg("unknown login")
		return models.Token{}, ErrWrongCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(credentials.Password)); err != nil {
		log.Err(err).Str("login", credentials.Login).Msg("wrong password")
		return models.Token{}, ErrWrongCredentials
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, credentials.Login, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Msg("error generating token")
		return models.Token{}, fmt.Errorf("error generating token: %w", err)
	}

	return token, nil
}

// ParseToken verifies the compact token string and returns its claims.
// Expired tokens are reported as ErrTokenIsExpired so the transport layer
// can answer with a dedicated status.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenIsExpired
		}
		return models.Token{}, fmt.Errorf("error parsing token: %w", err)
	}

	if token.Login != a.login {
		return models.Token{}, ErrWrongCredentials
	}

	return token, nil
}
