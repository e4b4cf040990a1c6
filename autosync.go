package playermap

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoSyncer = (*client)(nil)

// AutoSyncer provides controls for periodic syncs.
type AutoSyncer interface {
	// AutoSyncOn begins periodic syncs at the configured interval
	AutoSyncOn() error

	// AutoSyncOff stops periodic syncs
	AutoSyncOff() error
}

// AutoSyncOn begins periodic syncs. Runs share the client's run lock, so
// a periodic run never overlaps a manual one.
func (c *client) AutoSyncOn() error {
	if c.options.autoSyncInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoSyncInterval",
			Value:   c.options.autoSyncInterval,
			Message: "sync interval must be positive",
		}
	}

	// Stop any existing loop before starting a new one
	if err := c.AutoSyncOff(); err != nil {
		return err
	}

	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	c.stopCh = make(chan struct{})
	c.syncTicker = time.NewTicker(c.options.autoSyncInterval)
	ctx, cancel := context.WithCancel(context.Background())
	c.syncCancel = cancel
	done := make(chan struct{})
	c.autoSyncDone = done

	go func(parentCtx context.Context, ticker *time.Ticker, stopCh <-chan struct{}) {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				runCtx, runCancel := context.WithTimeout(parentCtx, constants.SyncTimeout)
				_, err := c.Sync(runCtx)
				runCancel()

				if err != nil {
					if stderrors.Is(err, context.Canceled) || parentCtx.Err() != nil {
						return
					}
					// Log other errors but continue
					logging.Error().Err(err).Msg("Auto-sync failed")
				}
			case <-parentCtx.Done():
				return
			case <-stopCh:
				return
			}
		}
	}(ctx, c.syncTicker, c.stopCh)

	logging.Info().Dur("interval", c.options.autoSyncInterval).Msg("Auto-sync enabled")
	return nil
}

// AutoSyncOff stops periodic syncs and waits for an in-flight run to end.
func (c *client) AutoSyncOff() error {
	c.autoMu.Lock()
	if c.syncTicker != nil {
		c.syncTicker.Stop()
		c.syncTicker = nil
	}
	if c.syncCancel != nil {
		c.syncCancel()
		c.syncCancel = nil
	}
	select {
	case <-c.stopCh:
		// Already closed
	default:
		close(c.stopCh)
	}
	done := c.autoSyncDone
	c.autoSyncDone = nil
	c.autoMu.Unlock()

	if done != nil {
		<-done
	}
	return nil
}
