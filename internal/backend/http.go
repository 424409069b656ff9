package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-note-sync/internal/config"
	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/models"
)

// HTTPBackend stores the snapshot on the companion snapshot server. It
// authenticates with login/password, caches the issued bearer token, and
// re-authenticates once when the token expires mid-session.
type HTTPBackend struct {
	client   *resty.Client
	login    string
	password string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

func NewHTTPBackend(cfg config.HTTPBackend, log *logger.Logger) (*HTTPBackend, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("http backend: invalid base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &HTTPBackend{
		client:   client,
		login:    cfg.Login,
		password: cfg.Password,
		logger:   log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Download fetches the snapshot into dest. HTTP 404 means the server holds
// no snapshot yet and is reported as absence, not failure.
func (h *HTTPBackend) Download(ctx context.Context, dest string) (bool, error) {
	resp, err := h.authedRequest(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.SetOutput(dest).Get("/api/snapshot/")
	})
	if err != nil {
		return false, fmt.Errorf("http backend: download request: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		// SetOutput writes the error body to dest as well; absence must
		// leave no file behind
		os.Remove(dest)
		h.logger.Debug().Str("func", "HTTPBackend.Download").Msg("no snapshot yet")
		return false, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return false, err
	}

	return true, nil
}

// Upload publishes the file at src as the new snapshot.
func (h *HTTPBackend) Upload(ctx context.Context, src string) error {
	body, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("http backend: error reading snapshot: %w", err)
	}

	resp, err := h.authedRequest(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetHeader("Content-Type", "application/octet-stream").
			SetBody(body).
			Put("/api/snapshot/")
	})
	if err != nil {
		return fmt.Errorf("http backend: upload request: %w", err)
	}

	return mapHTTPError(resp)
}

// authedRequest runs send with a bearer token, authenticating first when no
// token is held and retrying once after a 401 in case the token expired.
func (h *HTTPBackend) authedRequest(ctx context.Context, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	if h.readToken() == "" {
		if err := h.authenticate(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := send(h.newRequest(ctx))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		if err = h.authenticate(ctx); err != nil {
			return nil, err
		}
		return send(h.newRequest(ctx))
	}

	return resp, nil
}

func (h *HTTPBackend) newRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.readToken(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func (h *HTTPBackend) authenticate(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.Credentials{Login: h.login, Password: h.password}).
		Post("/api/auth/login")
	if err != nil {
		return fmt.Errorf("http backend: login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("http backend: login parse bearer token: %w", err)
	}

	h.mu.Lock()
	h.token = token
	h.mu.Unlock()

	h.logger.Debug().Str("func", "HTTPBackend.authenticate").Msg("authenticated against snapshot server")
	return nil
}

func (h *HTTPBackend) readToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrRemoteMissing, body)
	case http.StatusInternalServerError, http.StatusBadGateway:
		return fmt.Errorf("%w: %s", ErrServerFailure, body)
	default:
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}
