package playermap

import (
	gosync "sync"

	"github.com/agentstation/playermap/pkg/merger"
	"github.com/agentstation/playermap/pkg/reconciler"
	"github.com/agentstation/playermap/pkg/sync"
)

// Hook function types for registry events
type (
	// NewPlayerHook is called for every row a merge appends
	NewPlayerHook func(player merger.Player)

	// ConflictHook is called for every cross-reference conflict
	ConflictHook func(change reconciler.Change)

	// SyncCompleteHook is called after every run, failed or not
	SyncCompleteHook func(result *sync.Result)
)

// Hooks registers callbacks for registry events.
type Hooks interface {
	OnNewPlayer(fn NewPlayerHook)
	OnConflict(fn ConflictHook)
	OnSyncComplete(fn SyncCompleteHook)
}

// hooks manages event callbacks for registry changes
type hooks struct {
	mu             gosync.RWMutex
	onNewPlayer    []NewPlayerHook
	onConflict     []ConflictHook
	onSyncComplete []SyncCompleteHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnNewPlayer registers a callback for appended players
func (c *client) OnNewPlayer(fn NewPlayerHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onNewPlayer = append(c.hooks.onNewPlayer, fn)
}

// OnConflict registers a callback for cross-reference conflicts
func (c *client) OnConflict(fn ConflictHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onConflict = append(c.hooks.onConflict, fn)
}

// OnSyncComplete registers a callback for finished runs
func (c *client) OnSyncComplete(fn SyncCompleteHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onSyncComplete = append(c.hooks.onSyncComplete, fn)
}

func (h *hooks) triggerNewPlayers(players []merger.Player) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, p := range players {
		for _, hook := range h.onNewPlayer {
			hook(p)
		}
	}
}

func (h *hooks) triggerConflicts(changes []reconciler.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, change := range changes {
		if !change.Conflict {
			continue
		}
		for _, hook := range h.onConflict {
			hook(change)
		}
	}
}

func (h *hooks) triggerSyncComplete(result *sync.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onSyncComplete {
		hook(result)
	}
}
