package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/routerdock/internal/infrastructure/config"
	"github.com/nerrad567/routerdock/internal/infrastructure/logging"
	"github.com/nerrad567/routerdock/internal/registration"
	"github.com/nerrad567/routerdock/internal/web"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  *config.Config
	Logger  *logging.Logger
	Service *registration.Service
	Version string
}

// Server is the HTTP server for routerdock.
//
// It serves the JSON API and the embedded browser UI over one listener.
// The server is created with New() and started with Start().
type Server struct {
	cfg      *config.Config
	logger   *logging.Logger
	service  *registration.Service
	version  string
	limiter  *rateLimiter
	renderer *web.Renderer
	server   *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, registration service)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing or the embedded
//     templates do not parse
func New(deps Deps) (*Server, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Service == nil {
		return nil, fmt.Errorf("registration service is required")
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("building page renderer: %w", err)
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		service:  deps.Service,
		version:  deps.Version,
		limiter:  newRateLimiter(deps.Config.Server.RateLimitPerMinute, time.Minute),
		renderer: renderer,
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; the server is stopped
// with Close(). The context is not used for the listener lifetime.
//
// Returns:
//   - error: If the server fails to start
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		s.logger.Info("API server listening", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
