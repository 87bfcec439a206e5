package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new HTTP server.
func New(handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger: logger,
	}
}

// Serve accepts connections on ln until Shutdown. A clean shutdown
// returns nil.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http server listening", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits at most grace for
// in-flight requests before closing the rest.
func (s *Server) Shutdown(ctx context.Context, grace time.Duration) error {
	start := time.Now()
	sctx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()

	err := s.httpServer.Shutdown(sctx)
	if err != nil {
		s.logger.Debug("graceful shutdown cut short", "error", err)
		err = s.httpServer.Close()
	}
	s.logger.Info("http server stopped", "duration", time.Since(start))
	return err
}
