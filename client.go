// Package playermap keeps an append-only registry of football players and
// their identifiers. A sync run merges the provider's current snapshot
// into the registry CSV, then reconciles a curated cross-reference mapping
// against the stored external ids, writing the file atomically.
//
// Example usage:
//
//	pm, err := playermap.New(
//	    playermap.WithRegistryPath("./data/registry.csv"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pm.OnNewPlayer(func(p merger.Player) {
//	    log.Printf("new player: %d %s", p.Code, p.Name)
//	})
//
//	result, err := pm.Sync(ctx, sync.WithDryRun(true))
//	fmt.Println(result.Summary())
package playermap

import (
	"context"
	"os"
	gosync "sync"
	"time"

	"github.com/agentstation/playermap/internal/sources/crossref"
	"github.com/agentstation/playermap/internal/sources/fpl"
	"github.com/agentstation/playermap/internal/transport"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/sources"
	"github.com/agentstation/playermap/pkg/sync"
	"github.com/agentstation/playermap/pkg/teams"
)

// Syncer runs the sync pipeline.
type Syncer interface {
	// Sync runs the enabled stages once. The result is returned even when
	// a stage failed; the error then joins every stage failure.
	Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error)
}

// Client manages the registry with optional periodic syncs and event hooks.
type Client interface {
	Syncer

	// AutoSyncer provides access to periodic sync controls
	AutoSyncer

	// Hooks provides access to event callback registration
	Hooks

	// TeamsObserver compares live team codes with the known table
	TeamsObserver

	// KnownTeams returns the known team codes currently in use
	KnownTeams() teams.KnownCodes

	// RegistryPath returns the configured registry file
	RegistryPath() string

	// LastResult returns the result of the most recent run, or nil
	LastResult() *sync.Result
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	snapshots sources.SnapshotSource
	crossRefs sources.CrossRefSource

	// runMu serializes runs; the registry file has a single writer.
	runMu gosync.Mutex

	mu    gosync.RWMutex
	known teams.KnownCodes
	last  *sync.Result

	// auto sync state
	autoMu       gosync.Mutex
	syncTicker   *time.Ticker
	stopCh       chan struct{}
	syncCancel   context.CancelFunc
	autoSyncDone chan struct{}

	hooks *hooks
}

// New creates a new Client with the given options.
func New(opts ...Option) (Client, error) {
	options, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	known, err := loadKnownTeams(options.knownTeamsPath, options.persistTeams)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: options,
		known:   known,
		stopCh:  make(chan struct{}),
		hooks:   newHooks(),
	}

	c.snapshots = options.snapshotSource
	if c.snapshots == nil {
		tc := transport.New(transport.WithTimeout(options.httpTimeout))
		c.snapshots = fpl.NewClient(options.bootstrapURL, tc)
	}
	c.crossRefs = options.crossRefSource
	if c.crossRefs == nil {
		tc := transport.New(
			transport.WithTimeout(options.httpTimeout),
			transport.WithAuth(transport.AuthenticatorFor(options.crossRefAuth), options.crossRefToken),
		)
		c.crossRefs = crossref.NewClient(options.crossRefURL, crossref.WithTransport(tc))
	}

	logging.Debug().
		Str("registry", options.registryPath).
		Int("known_teams", len(known.Teams)).
		Bool("persist_teams", options.persistTeams).
		Msg("Client created")

	if options.autoSyncEnabled {
		if err := c.AutoSyncOn(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// loadKnownTeams reads the configured table. When discovered codes are
// persisted, a file that does not exist yet starts from the embedded table.
func loadKnownTeams(path string, persist bool) (teams.KnownCodes, error) {
	if path != "" && persist {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return teams.DefaultKnownCodes()
		}
	}
	known, err := teams.LoadKnownCodes(path)
	if err != nil {
		return teams.KnownCodes{}, errors.NewConfigError("playermap", "cannot load known team codes", err)
	}
	return known, nil
}

// KnownTeams returns the known team codes currently in use.
func (c *client) KnownTeams() teams.KnownCodes {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.known
}

// RegistryPath returns the configured registry file.
func (c *client) RegistryPath() string {
	return c.options.registryPath
}

// LastResult returns the result of the most recent run, or nil.
func (c *client) LastResult() *sync.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}
