package api

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Server wires the chi router to the handlers.
type Server struct {
	Router   chi.Router
	Handlers *Handlers
}

// NewServer creates a chi router with all routes configured.
func NewServer(h *Handlers) *Server {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	s := &Server{Router: r, Handlers: h}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.Router
	h := s.Handlers

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/liveness", h.HealthLiveness)
		r.Get("/readiness", h.HealthReadiness)
		r.Get("/services", h.HealthServices)
	})

	r.Post("/generate-email", h.Generate)

	r.Route("/batches", func(r chi.Router) {
		r.Post("/", h.BatchesCreate)
		r.Get("/", h.BatchesList)
		r.Get("/csv-template", h.BatchesTemplate)
		r.Get("/{batch_id}", h.BatchesGet)
		r.Post("/{batch_id}/cancel", h.BatchesCancel)
		r.Get("/{batch_id}/export", h.BatchesExport)
	})

	r.Get("/history", h.History)
	r.Get("/analytics", h.Analytics)
}
