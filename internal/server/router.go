package server

import (
	"net/http"

	"github.com/agentstation/playermap/internal/server/handlers"
	"github.com/agentstation/playermap/internal/server/middleware"
	"github.com/agentstation/playermap/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.config.RegistryPath,
		s.config.CacheTTL,
		s.cache,
		s.status,
		s.logger,
		s.startTime,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/", readOnly(h.HandleRoot))
	mux.HandleFunc(s.config.ServePath, readOnly(h.HandleRegistry))
	mux.HandleFunc("/health", readOnly(h.HandleHealth))
	mux.HandleFunc("/ready", readOnly(h.HandleReady))
}

// readOnly rejects every method except GET and HEAD.
func readOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		next(w, r)
	}
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(s.ctx, cfg.RateLimit, s.logger)))
	}

	return middleware.Chain(chain...)(handler)
}
