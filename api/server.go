// Package api exposes the validation engine as a headless JSON service.
package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gocausal/app"
	"gocausal/domain/dataset"
)

// Server routes HTTP requests to the validation service. The parameter
// table is loaded once at startup; every request validates against the
// same table.
type Server struct {
	router  *chi.Mux
	service *app.ValidationService
	table   *dataset.ParameterTable
	source  string
}

// NewServer wires middleware and routes around the service.
func NewServer(service *app.ValidationService, table *dataset.ParameterTable, source string) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		table:   table,
		source:  source,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/batch", s.handleBatch)
		r.Get("/links", s.handleLinks)
		r.Get("/parameters", s.handleParameters)
		r.Get("/report", s.handleReport)
	})
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	log.Printf("Starting causal validation API on http://%s", addr)
	return http.ListenAndServe(addr, s.router)
}
