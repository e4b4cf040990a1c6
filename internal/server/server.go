// Package server provides the read-only HTTP endpoint that publishes the
// registry file. Writers replace the file by atomic rename, so the server
// never takes a lock; the content cache is keyed by file version.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/playermap/internal/server/cache"
	"github.com/agentstation/playermap/internal/server/handlers"
	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	cache     *cache.Cache
	status    handlers.StatusProvider
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// reservedPaths are routed by the server itself.
var reservedPaths = []string{"/health", "/ready", "/favicon.ico"}

// New creates a new server instance with the given configuration.
// status may be nil when no sync runs in this process.
func New(cfg Config, logger *zerolog.Logger, status handlers.StatusProvider) (*Server, error) {
	if cfg.RegistryPath == "" {
		return nil, errors.NewValidationError("registry_path", cfg.RegistryPath, "registry path is required")
	}
	if cfg.ServePath == "" {
		cfg.ServePath = constants.DefaultServePath
	}
	if cfg.ServePath[0] != '/' || cfg.ServePath == "/" || strings.ContainsAny(cfg.ServePath, " \t{}") {
		return nil, errors.NewValidationError("serve_path", cfg.ServePath, "serve path must start with / and name a file")
	}
	if slices.Contains(reservedPaths, cfg.ServePath) {
		return nil, errors.NewValidationError("serve_path", cfg.ServePath, "serve path collides with a built-in route")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = constants.DefaultCacheTTL
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	ctx, cancel := context.WithCancel(context.Background())

	logger.Debug().
		Str("registry", cfg.RegistryPath).
		Str("serve_path", cfg.ServePath).
		Msg("Server instance created")

	return &Server{
		cache:     cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		status:    status,
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", srv.Addr).
			Str("registry", s.config.RegistryPath).
			Str("path", s.config.ServePath).
			Msg("Serving registry")
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.cancel()
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.cancel()
	return err
}

// Shutdown stops background services such as the rate limiter cleanup.
func (s *Server) Shutdown() {
	s.cancel()
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Config returns the effective configuration.
func (s *Server) Config() Config {
	return s.config
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
