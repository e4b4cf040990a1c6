// Package app provides the application context and dependency management
// for the playermap CLI: configuration, logging and the lazily created
// registry client.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/playermap"
	"github.com/agentstation/playermap/internal/appcontext"
	"github.com/agentstation/playermap/internal/server"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/reconciler"
)

// App represents the playermap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client playermap.Client
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config
	app.setLogger(NewLogger(config))

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// setLogger installs logger as the app logger and the package default,
// so library code logging through pkg/logging follows the CLI flags.
func (a *App) setLogger(logger zerolog.Logger) {
	a.logger = &logger
	logging.SetDefault(logger)
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Quiet reports whether progress lines are suppressed.
func (a *App) Quiet() bool {
	return a.config.Quiet
}

// ServerConfig returns the serving endpoint configuration.
func (a *App) ServerConfig() server.Config {
	return a.config.Server
}

// SyncInterval returns the configured background sync interval.
func (a *App) SyncInterval() time.Duration {
	return a.config.SyncInterval
}

// Client returns the registry client, creating it lazily if needed.
func (a *App) Client() (playermap.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	c, err := playermap.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.NewConfigError("client", "cannot create registry client", err)
	}
	a.client = c
	return c, nil
}

// ClientWithOptions returns a new client with the configured options
// followed by opts.
func (a *App) ClientWithOptions(opts ...playermap.Option) (playermap.Client, error) {
	c, err := playermap.New(append(a.clientOptions(), opts...)...)
	if err != nil {
		return nil, errors.NewConfigError("client", "cannot create registry client", err)
	}
	return c, nil
}

// Shutdown stops background syncs of the default client.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	c := a.client
	a.mu.RUnlock()

	if c != nil {
		if err := c.AutoSyncOff(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop auto-sync during shutdown")
			return err
		}
	}
	return nil
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() []playermap.Option {
	cfg := a.config
	opts := []playermap.Option{
		playermap.WithRegistryPath(cfg.RegistryPath),
		playermap.WithBootstrapURL(cfg.BootstrapURL),
		playermap.WithCrossRefURL(cfg.CrossRefURL),
		playermap.WithPersistDiscoveredTeams(cfg.PersistDiscoveredTeams),
	}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, playermap.WithHTTPTimeout(cfg.HTTPTimeout))
	}
	if cfg.KnownTeamsPath != "" {
		opts = append(opts, playermap.WithKnownTeamsPath(cfg.KnownTeamsPath))
	}
	if cfg.CrossRefToken != "" {
		opts = append(opts, playermap.WithCrossRefToken(cfg.CrossRefAuth, cfg.CrossRefToken))
	}
	if cfg.ConflictPolicy != "" {
		opts = append(opts, playermap.WithConflictPolicy(reconciler.ConflictPolicy(cfg.ConflictPolicy)))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(c playermap.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
