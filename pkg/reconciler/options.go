package reconciler

import (
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/registry"
)

// ConflictPolicy decides what happens when the cross-reference source
// disagrees with a stored, non-empty external id.
type ConflictPolicy string

const (
	// PolicySourceWins overwrites the stored id with the source's value.
	PolicySourceWins ConflictPolicy = "source-wins"

	// PolicyKeepStored reports the conflict but leaves the stored id alone.
	PolicyKeepStored ConflictPolicy = "keep-stored"
)

// options configures a reconciler.
type options struct {
	policy ConflictPolicy
	column string
}

func defaultOptions() *options {
	return &options{
		policy: PolicySourceWins,
		column: registry.ColumnExternalID,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithConflictPolicy sets how conflicting ids are resolved.
func WithConflictPolicy(policy ConflictPolicy) Option {
	return func(o *options) error {
		switch policy {
		case PolicySourceWins, PolicyKeepStored:
			o.policy = policy
			return nil
		default:
			return &errors.ValidationError{
				Field:   "policy",
				Value:   policy,
				Message: "must be source-wins or keep-stored",
			}
		}
	}
}

// WithColumn sets the registry column holding the external id.
func WithColumn(column string) Option {
	return func(o *options) error {
		if column == "" {
			return &errors.ValidationError{
				Field:   "column",
				Message: "cannot be empty",
			}
		}
		o.column = column
		return nil
	}
}
