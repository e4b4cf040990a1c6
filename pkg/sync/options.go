// Package sync provides the options and the run result of a registry sync.
package sync

import (
	"time"

	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/season"
)

// Options controls one run of the sync pipeline.
type Options struct {
	// Stage selection
	Merge     bool // Fetch the provider snapshot and merge it
	Reconcile bool // Fetch the cross-reference mapping and reconcile it

	// Orchestration control
	DryRun   bool          // Run every stage but write nothing
	FailFast bool          // Skip reconcile when merge failed
	Timeout  time.Duration // Timeout for the entire run (0 means none)

	// Overrides
	Season       *season.Season // Season to write (nil means the current one)
	RegistryPath string         // Registry file (empty means the client default)
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options: both stages on, writes enabled.
func Defaults() *Options {
	return &Options{
		Merge:     true,
		Reconcile: true,
	}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	if !s.Merge && !s.Reconcile {
		return &errors.ValidationError{
			Field:   "Stages",
			Message: "at least one of merge or reconcile must be enabled",
		}
	}
	return nil
}

// WithMerge enables or disables the merge stage.
func WithMerge(enabled bool) Option {
	return func(opts *Options) {
		opts.Merge = enabled
	}
}

// WithReconcile enables or disables the reconcile stage.
func WithReconcile(enabled bool) Option {
	return func(opts *Options) {
		opts.Reconcile = enabled
	}
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithFailFast configures fail-fast behavior.
func WithFailFast(failFast bool) Option {
	return func(opts *Options) {
		opts.FailFast = failFast
	}
}

// WithTimeout configures the run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithSeason writes the given season instead of the current one.
func WithSeason(s season.Season) Option {
	return func(opts *Options) {
		opts.Season = &s
	}
}

// WithRegistryPath overrides the registry file for one run.
func WithRegistryPath(path string) Option {
	return func(opts *Options) {
		opts.RegistryPath = path
	}
}
