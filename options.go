package playermap

import (
	"time"

	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/reconciler"
	"github.com/agentstation/playermap/pkg/sources"
)

// options holds the configuration of a Client. Every endpoint and path is
// an explicit value so a client can be pointed at fixtures.
type options struct {
	registryPath   string
	bootstrapURL   string
	crossRefURL    string
	crossRefToken  string
	crossRefAuth   string
	knownTeamsPath string
	persistTeams   bool
	httpTimeout    time.Duration
	conflictPolicy reconciler.ConflictPolicy

	snapshotSource sources.SnapshotSource
	crossRefSource sources.CrossRefSource

	autoSyncEnabled  bool
	autoSyncInterval time.Duration
}

func defaults() *options {
	return &options{
		registryPath:     constants.DefaultRegistryPath,
		bootstrapURL:     constants.DefaultBootstrapURL,
		crossRefURL:      constants.DefaultCrossRefURL,
		crossRefAuth:     "bearer",
		httpTimeout:      constants.DefaultHTTPTimeout,
		conflictPolicy:   reconciler.PolicySourceWins,
		autoSyncInterval: constants.DefaultSyncInterval,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Option is a function that configures a Client.
type Option func(*options) error

// WithRegistryPath sets the registry CSV file.
func WithRegistryPath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return &errors.ValidationError{Field: "registry_path", Message: "cannot be empty"}
		}
		o.registryPath = path
		return nil
	}
}

// WithBootstrapURL sets the provider bootstrap endpoint.
func WithBootstrapURL(url string) Option {
	return func(o *options) error {
		o.bootstrapURL = url
		return nil
	}
}

// WithCrossRefURL sets the cross-reference mapping endpoint.
func WithCrossRefURL(url string) Option {
	return func(o *options) error {
		o.crossRefURL = url
		return nil
	}
}

// WithCrossRefToken authenticates cross-reference requests. scheme is
// "bearer", "header:<name>" or "query:<param>".
func WithCrossRefToken(scheme, token string) Option {
	return func(o *options) error {
		if scheme != "" {
			o.crossRefAuth = scheme
		}
		o.crossRefToken = token
		return nil
	}
}

// WithKnownTeamsPath sets the known team codes YAML file. Empty selects
// the embedded table.
func WithKnownTeamsPath(path string) Option {
	return func(o *options) error {
		o.knownTeamsPath = path
		return nil
	}
}

// WithPersistDiscoveredTeams writes newly discovered team codes back to
// the known team codes file after a successful merge.
func WithPersistDiscoveredTeams(enabled bool) Option {
	return func(o *options) error {
		o.persistTeams = enabled
		return nil
	}
}

// WithHTTPTimeout sets the per-request timeout for both sources.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout <= 0 {
			return &errors.ValidationError{Field: "http_timeout", Value: timeout, Message: "must be positive"}
		}
		o.httpTimeout = timeout
		return nil
	}
}

// WithConflictPolicy sets how cross-reference conflicts are resolved.
func WithConflictPolicy(policy reconciler.ConflictPolicy) Option {
	return func(o *options) error {
		if _, err := reconciler.New(reconciler.WithConflictPolicy(policy)); err != nil {
			return err
		}
		o.conflictPolicy = policy
		return nil
	}
}

// WithSnapshotSource replaces the provider bootstrap source.
func WithSnapshotSource(src sources.SnapshotSource) Option {
	return func(o *options) error {
		o.snapshotSource = src
		return nil
	}
}

// WithCrossRefSource replaces the cross-reference source.
func WithCrossRefSource(src sources.CrossRefSource) Option {
	return func(o *options) error {
		o.crossRefSource = src
		return nil
	}
}

// WithAutoSync configures whether periodic syncs start with the client.
func WithAutoSync(enabled bool) Option {
	return func(o *options) error {
		o.autoSyncEnabled = enabled
		return nil
	}
}

// WithAutoSyncInterval configures how often periodic syncs run.
func WithAutoSyncInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoSyncInterval = interval
		return nil
	}
}
