package playermap

import (
	"context"

	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/teams"
)

// TeamsObserver compares the live provider team list with the known codes.
type TeamsObserver interface {
	// ObserveTeams fetches the provider snapshot and returns the team codes
	// it lists that the known table lacks. Nothing is written.
	ObserveTeams(ctx context.Context) ([]teams.Team, error)
}

// ObserveTeams implements TeamsObserver.
func (c *client) ObserveTeams(ctx context.Context) ([]teams.Team, error) {
	snapshot, err := c.snapshots.FetchSnapshot(ctx)
	if err != nil {
		return nil, errors.NewStageError("observe", err)
	}
	resolver := teams.NewResolver(c.KnownTeams())
	return resolver.Observe(ctx, snapshot.TeamNames()), nil
}
