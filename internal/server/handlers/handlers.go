// Package handlers provides HTTP request handlers for the registry server.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/playermap/internal/server/cache"
	"github.com/agentstation/playermap/pkg/sync"
)

// StatusProvider exposes the outcome of the most recent sync run.
// LastResult returns nil before the first run.
type StatusProvider interface {
	LastResult() *sync.Result
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	registryPath string
	cacheTTL     time.Duration
	cache        *cache.Cache
	status       StatusProvider
	logger       *zerolog.Logger
	startTime    time.Time
}

// New creates a new Handlers instance. status may be nil.
func New(
	registryPath string,
	cacheTTL time.Duration,
	cache *cache.Cache,
	status StatusProvider,
	logger *zerolog.Logger,
	startTime time.Time,
) *Handlers {
	return &Handlers{
		registryPath: registryPath,
		cacheTTL:     cacheTTL,
		cache:        cache,
		status:       status,
		logger:       logger,
		startTime:    startTime,
	}
}
