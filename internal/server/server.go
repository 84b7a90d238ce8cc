// Package server hosts the HTTP API: core routes, domain handlers mounted
// through RouteRegistrar, and the middleware chain in front of them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/HerbHall/rigplanner/internal/metrics"
	"github.com/HerbHall/rigplanner/internal/version"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by domain handlers that mount their routes
// on the shared mux.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Options tunes the middleware chain.
type Options struct {
	// RateLimit is the sustained requests per second allowed per client.
	// Zero or less disables rate limiting.
	RateLimit float64
	// RateBurst is the bucket size per client.
	RateBurst int
}

// Server is the rigplanner HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	metrics    *metrics.Metrics
	mux        *http.ServeMux
}

// New creates a Server listening on addr with every registrar mounted.
func New(addr string, logger *zap.Logger, m *metrics.Metrics, opts Options, registrars ...RouteRegistrar) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:  logger,
		metrics: m,
		mux:     mux,
	}

	s.registerCoreRoutes()
	for _, r := range registrars {
		r.RegisterRoutes(mux)
	}

	var handler http.Handler = mux
	handler = rateLimit(newClientLimiter(opts.RateLimit, opts.RateBurst), m, handler)
	handler = instrument(logger, m, handler)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("X-Rigplanner-Version", version.Version)
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "rigplanner",
		"version": version.Current(),
	})
}
