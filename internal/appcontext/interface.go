// Package appcontext provides the application context interface shared by
// every command package, so commands depend on an interface rather than on
// the concrete CLI application.
package appcontext

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/playermap"
	"github.com/agentstation/playermap/internal/server"
)

// Interface defines the dependencies commands need.
type Interface interface {
	// Client returns the default registry client, creating it lazily.
	Client() (playermap.Client, error)

	// ClientWithOptions creates a new client with the configured options
	// followed by opts, for commands that override a setting.
	ClientWithOptions(...playermap.Option) (playermap.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml...).
	OutputFormat() string

	// Quiet reports whether human-oriented progress lines are suppressed.
	Quiet() bool

	// ServerConfig returns the serving endpoint configuration.
	ServerConfig() server.Config

	// SyncInterval returns how often a serving process re-syncs; 0 disables it.
	SyncInterval() time.Duration

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
