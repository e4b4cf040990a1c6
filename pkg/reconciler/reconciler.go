// Package reconciler merges the curated cross-reference mapping into the
// player registry. Empty external ids are adopted from the source; stored
// ids the source disagrees with are conflicts. A pass that changes nothing
// reports no changes, so callers can skip the write.
package reconciler

import (
	"context"
	"strconv"
	"strings"

	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/registry"
	"github.com/agentstation/playermap/pkg/sources"
)

// Reconciler applies a cross-reference mapping to a registry table.
type Reconciler interface {
	// Reconcile updates table in place from ref.
	Reconcile(ctx context.Context, table *registry.Table, ref *sources.CrossRef) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	policy ConflictPolicy
	column string
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{policy: options.policy, column: options.column}, nil
}

// Reconcile walks every row with a usable stable code. A stored id is
// never replaced with an empty value.
func (r *reconciler) Reconcile(ctx context.Context, table *registry.Table, ref *sources.CrossRef) (*Result, error) {
	if table == nil {
		return nil, &errors.ValidationError{Field: "table", Message: "cannot be nil"}
	}
	if ref == nil {
		return nil, &errors.ValidationError{Field: "ref", Message: "cannot be nil"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	result := &Result{Policy: r.policy, SourceSize: ref.Len()}
	table.AddColumns(r.column)

	for _, row := range table.Rows() {
		normalized, ok := registry.NormalizeCode(row.Code())
		if !ok {
			continue
		}
		code, err := strconv.ParseInt(normalized, 10, 64)
		if err != nil {
			continue
		}
		result.Examined++

		incoming, found := ref.Get(code)
		incoming = strings.TrimSpace(incoming)
		if !found {
			result.Unmapped++
			continue
		}
		if incoming == "" {
			continue
		}

		stored := strings.TrimSpace(row.Get(r.column))
		name := row.Get(registry.ColumnName)
		switch {
		case stored == "":
			row.Set(r.column, incoming)
			result.Adopted++
			result.Changes = append(result.Changes, Change{Code: normalized, Name: name, New: incoming})
			logger.Debug().
				Str("code", normalized).
				Str("name", name).
				Str("external_id", incoming).
				Msg("Adopted external id")

		case stored != incoming:
			result.Conflicts++
			applied := r.policy == PolicySourceWins
			if applied {
				row.Set(r.column, incoming)
			}
			result.Changes = append(result.Changes, Change{Code: normalized, Name: name, Old: stored, New: incoming, Conflict: true, Applied: applied})

			w := errors.NewDataQualityWarning(errors.WarningExternalIDConflict, normalized, name,
				"stored external id "+stored+" differs from source value "+incoming)
			result.Warnings = append(result.Warnings, w)
			logger.Warn().
				Str("code", normalized).
				Str("name", name).
				Str("stored", stored).
				Str("source", incoming).
				Bool("applied", applied).
				Msg("External id conflict")
		}
	}

	logger.Info().
		Int("examined", result.Examined).
		Int("adopted", result.Adopted).
		Int("conflicts", result.Conflicts).
		Int("unmapped", result.Unmapped).
		Msg("Reconciled cross-reference ids")
	return result, nil
}
