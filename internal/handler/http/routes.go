package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/login", h.login)
	})

	// snapshot routes require a valid bearer token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/snapshot/", h.downloadSnapshot)
		r.Head("/api/snapshot/", h.snapshotInfo)
		r.Put("/api/snapshot/", h.uploadSnapshot)
	})

	return router
}
