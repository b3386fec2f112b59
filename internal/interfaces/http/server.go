package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with logging and graceful shutdown.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

// ServerOption customises NewServer.
type ServerOption func(*http.Server)

// WithTimeouts sets read and write timeouts.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *http.Server) {
		s.ReadTimeout = read
		s.WriteTimeout = write
	}
}

// NewServer creates a server for handler on addr.
func NewServer(addr string, handler http.Handler, logger logging.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return &Server{httpServer: srv, logger: logger.Named("server")}
}

// Start listens on the configured address and blocks until Shutdown.  A
// clean shutdown returns nil.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("HTTP server listening", logging.String("addr", ln.Addr().String()))
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown failed", logging.Err(err))
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Handler returns the served handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
