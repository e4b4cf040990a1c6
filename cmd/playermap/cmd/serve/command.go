// Package serve provides the serve command: a read-only HTTP endpoint for
// the registry file, optionally re-syncing in the background.
package serve

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/playermap"
	"github.com/agentstation/playermap/internal/appcontext"
	"github.com/agentstation/playermap/internal/cmd/emoji"
	"github.com/agentstation/playermap/internal/server"
	"github.com/agentstation/playermap/internal/server/handlers"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	pmsync "github.com/agentstation/playermap/pkg/sync"
)

// NewCommand creates the serve command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Serve the registry CSV over HTTP",
		Args:    cobra.NoArgs,
		Long: `Serve publishes the registry file read-only over HTTP.

Routes:
  GET /               welcome text
  GET /registry.csv   the registry, byte for byte (path configurable)
  GET /health         JSON status including the last sync run
  GET /ready          503 until the registry file is readable

Sync runs replace the file by atomic rename, so readers always see a
complete registry. With --sync-interval the server also runs the sync
pipeline in the background.`,
		Example: `  playermap serve                              # Serve on 0.0.0.0:8080
  playermap serve --port 3000 --path /ids.csv  # Custom port and path
  playermap serve --sync-interval 24h          # Re-sync daily`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, interval, err := parseConfig(cmd, app)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd, app, cfg, interval)
		},
	}

	defaults := app.ServerConfig()
	cmd.Flags().String("host", defaults.Host, "bind address")
	cmd.Flags().Int("port", defaults.Port, "listen port")
	cmd.Flags().String("path", defaults.ServePath, "URL path of the registry file")
	cmd.Flags().Duration("cache-ttl", defaults.CacheTTL, "Cache-Control max-age and in-memory cache TTL")
	cmd.Flags().Int("rate-limit", defaults.RateLimit, "requests per minute per client (0 to disable)")
	cmd.Flags().StringSlice("cors-origins", defaults.CORSOrigins, "allowed CORS origins (default: any)")
	cmd.Flags().Duration("sync-interval", app.SyncInterval(), "run the sync pipeline this often (0 to disable)")

	return cmd
}

// parseConfig overlays changed flags on the configured server settings.
func parseConfig(cmd *cobra.Command, app appcontext.Interface) (server.Config, time.Duration, error) {
	cfg := app.ServerConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Host, err = flags.GetString("host"); err != nil {
		return cfg, 0, err
	}
	if cfg.Port, err = flags.GetInt("port"); err != nil {
		return cfg, 0, err
	}
	if cfg.ServePath, err = flags.GetString("path"); err != nil {
		return cfg, 0, err
	}
	if cfg.CacheTTL, err = flags.GetDuration("cache-ttl"); err != nil {
		return cfg, 0, err
	}
	if cfg.RateLimit, err = flags.GetInt("rate-limit"); err != nil {
		return cfg, 0, err
	}
	if cfg.CORSOrigins, err = flags.GetStringSlice("cors-origins"); err != nil {
		return cfg, 0, err
	}
	interval, err := flags.GetDuration("sync-interval")
	if err != nil {
		return cfg, 0, err
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return cfg, 0, errors.NewValidationError("port", cfg.Port, "must be between 1 and 65535")
	}
	if interval < 0 {
		return cfg, 0, errors.NewValidationError("sync-interval", interval, "cannot be negative")
	}
	return cfg, interval, nil
}

// run starts the optional background sync and serves until ctx is done.
func run(ctx context.Context, cmd *cobra.Command, app appcontext.Interface, cfg server.Config, interval time.Duration) error {
	logger := app.Logger()
	ctx = logging.WithLogger(ctx, logger)

	var (
		status handlers.StatusProvider
		client playermap.Client
	)
	if interval > 0 {
		var err error
		client, err = app.ClientWithOptions(
			playermap.WithAutoSyncInterval(interval),
			playermap.WithAutoSync(true),
		)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.AutoSyncOff(); err != nil {
				logger.Warn().Err(err).Msg("Failed to stop auto-sync")
			}
		}()
		cfg.RegistryPath = client.RegistryPath()
		status = client
	}

	srv, err := server.New(cfg, logger, status)
	if err != nil {
		return err
	}

	if client != nil {
		// Entries of replaced files would only age out; drop them at once.
		client.OnSyncComplete(func(result *pmsync.Result) {
			if result.HasChanges() && !result.DryRun {
				srv.Cache().Clear()
			}
		})
		// The ticker fires only after the first interval.
		go func() {
			if _, err := client.Sync(ctx); err != nil {
				logger.Error().Err(err).Msg("Initial sync failed")
			}
		}()
	}

	if !app.Quiet() {
		cmd.PrintErrf("%s Serving %s at http://%s%s\n", emoji.Info, cfg.RegistryPath, cfg.Addr(), cfg.ServePath)
		if interval > 0 {
			cmd.PrintErrf("%s Syncing every %s\n", emoji.Info, interval)
		}
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	if !app.Quiet() {
		cmd.PrintErrf("%s Server stopped\n", emoji.Stop)
	}
	return nil
}
