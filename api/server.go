/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions. This
  is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend dev server

SECURITY NOTE:
  No authentication middleware. Role switching is a frontend concern in this
  deployment; all endpoints are open on the municipal intranet.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/caregivers", func(r chi.Router) {
			r.Get("/", h.ListCaregivers)
			r.Post("/", h.CreateCaregiver)
			r.Get("/{id}", h.GetCaregiver)
		})

		r.Route("/children", func(r chi.Router) {
			r.Get("/", h.ListChildren)
			r.Post("/", h.CreateChild)
			r.Put("/{id}", h.UpdateChild)
			r.Get("/{id}/grant-status", h.GetGrantStatus)
		})

		r.Route("/time-entries", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/", h.CreateEntry)
			r.Post("/preview", h.PreviewEntry)
			r.Put("/{id}/status", h.UpdateEntryStatus)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/month-interval", h.GetMonthInterval)
			r.Get("/month-interval/history", h.GetMonthIntervalHistory)
			r.Put("/month-interval", h.SetMonthInterval)
		})

		r.Get("/export/time-entries", h.ExportEntries)
		r.Get("/health", h.Health)
	})

	return r
}
