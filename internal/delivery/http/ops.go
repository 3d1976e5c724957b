package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// OpsServer serves the health check and Prometheus metrics endpoints on a
// dedicated listener, kept off the public API port
type OpsServer struct {
	server *http.Server
	logger zerolog.Logger
}

// NewOpsServer creates the ops server
func NewOpsServer(port string, health *HealthHandler, logger zerolog.Logger) *OpsServer {
	mux := http.NewServeMux()
	mux.Handle("/health", health)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &OpsServer{
		server: srv,
		logger: logger,
	}
}

// Start starts the ops server in a separate goroutine
func (s *OpsServer) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting ops server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Ops server error")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the ops server
func (s *OpsServer) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down ops server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown ops server: %w", err)
	}

	s.logger.Info().Msg("Ops server stopped gracefully")
	return nil
}
