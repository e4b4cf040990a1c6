// Package fpl fetches the provider bootstrap snapshot: the current player
// list and team list of the competition.
package fpl

import (
	"context"

	"github.com/agentstation/playermap/internal/transport"
	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/sources"
)

// Client implements sources.SnapshotSource over HTTP.
type Client struct {
	url       string
	transport *transport.Client
}

var _ sources.SnapshotSource = (*Client)(nil)

// NewClient creates a bootstrap client for url. An empty url uses the
// public bootstrap endpoint; a nil transport uses the defaults.
func NewClient(url string, tc *transport.Client) *Client {
	if url == "" {
		url = constants.DefaultBootstrapURL
	}
	if tc == nil {
		tc = transport.New()
	}
	return &Client{url: url, transport: tc}
}

// ID returns the source identifier.
func (c *Client) ID() sources.ID {
	return sources.BootstrapID
}

// URL returns the endpoint the client reads.
func (c *Client) URL() string {
	return c.url
}

// FetchSnapshot downloads and decodes the bootstrap document. A document
// without players is rejected so an outage page is never merged.
func (c *Client) FetchSnapshot(ctx context.Context) (*sources.Snapshot, error) {
	logger := logging.FromContext(ctx)

	var snapshot sources.Snapshot
	if err := c.transport.FetchJSON(ctx, c.ID().String(), c.url, &snapshot); err != nil {
		return nil, err
	}
	if len(snapshot.Elements) == 0 {
		return nil, errors.NewParseError("json", c.ID().String(), "bootstrap document has no elements", nil)
	}

	logger.Info().
		Int("players", len(snapshot.Elements)).
		Int("teams", len(snapshot.Teams)).
		Msg("Fetched provider snapshot")
	return &snapshot, nil
}
