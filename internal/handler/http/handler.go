// Package http implements the snapshot server's HTTP transport: the login
// endpoint and the authenticated snapshot download/upload routes, together
// with the authentication, tracing, and logging middleware in front of them.
package http

import (
	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/service"
)

type Handler struct {
	services *service.Services

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}
