package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nerrad567/routerdock/internal/web"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.rateLimitMiddleware)
	r.Use(s.bodySizeLimitMiddleware)
	r.Use(middleware.Compress(5))

	// Browser UI: the index shell plus the htmx fragment routes
	r.Get("/", s.handleIndexPage)
	r.Route("/devices", func(r chi.Router) {
		r.Get("/", s.handleDeviceListPage)
		r.Post("/", s.handleRegisterDevicePage)
		r.Get("/{id}", s.handleDeviceDetailPage)
		r.Delete("/{id}", s.handleDeleteDevicePage)
		r.Post("/{id}/refresh", s.handleRefreshDevicePage)
	})
	r.Handle("/static/*", http.StripPrefix("/static", web.StaticHandler()))
	r.Get("/favicon.ico", s.handleFavicon)
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Device endpoints
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/", s.handleRegisterDevice)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Delete("/", s.handleDeleteDevice)
				r.Post("/refresh", s.handleRefreshDevice)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleFavicon answers favicon probes with 204; the UI ships no icon.
func (s *Server) handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
