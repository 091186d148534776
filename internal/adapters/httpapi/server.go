package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xvierd/lofi-cli/internal/logging"
	"github.com/xvierd/lofi-cli/internal/ports"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// NewRouter builds the full route tree. Browser requests are only accepted
// from origins matching allowedOrigins; nil means DefaultAllowedOrigins.
func NewRouter(ctrl ports.WidgetController, logger *logging.Logger, allowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.NopLogger()
	}
	h := NewHandler(ctrl, logger)
	if allowedOrigins != nil {
		h.origins = allowedOrigins
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(CORS(h.origins))

	h.RegisterRoutes(r)
	r.Get("/ws", h.Stream)
	return r
}

// Server is the headless HTTP front end.
type Server struct {
	srv             *http.Server
	logger          *logging.Logger
	shutdownTimeout time.Duration
}

// NewServer creates a server listening on addr.
func NewServer(addr string, ctrl ports.WidgetController, logger *logging.Logger, shutdownTimeout time.Duration, allowedOrigins []string) *Server {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(ctrl, logger, allowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger:          logger.Component("server"),
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	// WebSocket streams end with ctx; Shutdown does not track hijacked connections.
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}
