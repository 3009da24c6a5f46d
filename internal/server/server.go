package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/app"
	"github.com/bobmcallan/paisa-buddy/internal/common"
)

// ShutdownGrace bounds how long in-flight requests may finish after Run's context ends.
const ShutdownGrace = 10 * time.Second

// Server serves the Paisa Buddy JSON API and the MCP endpoint.
type Server struct {
	app    *app.App
	router *http.ServeMux
	server *http.Server
	logger *common.Logger
}

// New builds the router and middleware chain for application.
func New(application *app.App) *Server {
	s := &Server{
		app:    application,
		logger: application.Logger,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port),
		Handler:     s.withMiddleware(s.router),
		ReadTimeout: 30 * time.Second,
		// content generation waits on an external model
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Run listens on the configured address and serves until ctx is done.
// A bind failure is returned before any request is accepted.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains
// in-flight requests for up to ShutdownGrace.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info().
		Str("address", ln.Addr().String()).
		Str("url", "http://"+ln.Addr().String()).
		Msg("HTTP server listening")

	errc := make(chan error, 1)
	go func() { errc <- s.server.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
