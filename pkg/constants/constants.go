// Package constants provides shared constants used throughout the playermap codebase.
// This includes timeouts, file permissions, default endpoints and default paths
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to external sources
	DefaultHTTPTimeout = 30 * time.Second

	// SyncTimeout is the timeout for a complete sync run
	SyncTimeout = 5 * time.Minute

	// DefaultSyncInterval is how often a serving process re-runs the sync pipeline.
	DefaultSyncInterval = 24 * time.Hour

	// ShutdownTimeout is how long the server waits for in-flight requests on shutdown
	ShutdownTimeout = 5 * time.Second

	// DefaultCacheTTL is how long served registry bytes stay cached
	DefaultCacheTTL = 5 * time.Minute

	// DefaultReadTimeout is the HTTP server read timeout
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the HTTP server write timeout
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the HTTP server idle timeout
	DefaultIdleTimeout = 60 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Source endpoints
const (
	// DefaultBootstrapURL is the provider bootstrap endpoint carrying players and teams
	DefaultBootstrapURL = "https://fantasy.premierleague.com/api/bootstrap-static/"

	// DefaultCrossRefURL is the curated code-to-external-id mapping
	DefaultCrossRefURL = "https://raw.githubusercontent.com/ChrisMusson/FPL-ID-Map/main/Master.csv"

	// UserAgent is sent with every outbound request
	UserAgent = "playermap/1.0"
)

// Path constants
const (
	// DefaultRegistryPath is the default location of the registry CSV
	DefaultRegistryPath = "./data/registry.csv"

	// DefaultConfigName is the config file base name searched in $HOME and the working directory
	DefaultConfigName = ".playermap"

	// DefaultServePath is the URL path the registry is served under
	DefaultServePath = "/registry.csv"
)

// Server defaults
const (
	// DefaultHost is the default bind address
	DefaultHost = "0.0.0.0"

	// DefaultPort is the default listen port
	DefaultPort = 8080
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
