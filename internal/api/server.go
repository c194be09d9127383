// Package api provides the HTTP server and routing around the engine.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/badibam/schemakit/internal/config"
	"github.com/badibam/schemakit/internal/metrics"
	"github.com/badibam/schemakit/internal/registry"
	"github.com/badibam/schemakit/internal/validation"
)

// Server represents the HTTP server.
type Server struct {
	config    *config.Config
	registry  *registry.Registry
	validator *validation.Validator
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewServer creates a new HTTP server around the registry and validator.
func NewServer(cfg *config.Config, reg *registry.Registry, v *validation.Validator, logger *slog.Logger) *Server {
	s := &Server{
		config:    cfg,
		registry:  reg,
		validator: v,
		logger:    logger,
		metrics:   metrics.New(),
	}

	s.setupRouter()
	return s
}

// Metrics returns the metrics instance for recording custom metrics.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// setupRouter configures the HTTP router.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	h := newHandler(s.registry, s.validator, s.metrics)

	r.Get("/", h.HealthCheck)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		s.metrics.Handler().ServeHTTP(w, req)
	})

	r.Get("/schemas", h.ListSchemas)
	r.Get("/schemas/{id}", h.GetSchema)
	r.Post("/schemas/{id}/validate", h.Validate)

	r.Post("/compose", h.Compose)
	r.Post("/resolve", h.Resolve)
	r.Post("/extract", h.Extract)

	s.router = r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.config.Address(),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
	}

	s.logger.Info("http server starting", slog.String("address", s.config.Address()))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// loggingMiddleware logs each request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
