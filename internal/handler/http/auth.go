package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/service"
	"github.com/MKhiriev/go-note-sync/models"
)

// login authenticates the configured account. On success the issued token
// is returned in the Authorization response header as a bearer token.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var credentials models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.Err(err).Msg("error decoding credentials")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.Login(r.Context(), credentials)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid credentials payload")
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrWrongCredentials):
			log.Err(err).Msg("login rejected")
			http.Error(w, err.Error(), http.StatusUnauthorized)
		default:
			log.Err(err).Msg("login failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Authorization", "Bearer "+token.SignedString)
	w.WriteHeader(http.StatusOK)
}
