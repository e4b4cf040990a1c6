// Package teams resolves provider team codes to display names. A fixed
// table of known codes is unioned with the team list observed in the
// current provider snapshot; codes missing from the known table are
// reported as discoveries.
package teams

import (
	"context"
	"sort"

	"github.com/agentstation/playermap/pkg/logging"
)

// Resolver maps team codes to display names for one sync run.
type Resolver struct {
	known      map[int]string
	observed   map[int]string
	discovered map[int]string
}

// NewResolver creates a resolver seeded with the known codes.
func NewResolver(known KnownCodes) *Resolver {
	return &Resolver{
		known:      known.Map(),
		observed:   make(map[int]string),
		discovered: make(map[int]string),
	}
}

// Observe unions a freshly observed code to name map into the resolver.
// Codes absent from the known table are logged and returned, sorted.
func (r *Resolver) Observe(ctx context.Context, observed map[int]string) []Team {
	logger := logging.FromContext(ctx)

	var found []Team
	for code, name := range observed {
		r.observed[code] = name
		if _, ok := r.known[code]; ok {
			continue
		}
		if _, seen := r.discovered[code]; !seen {
			found = append(found, Team{Code: code, Name: name})
		}
		r.discovered[code] = name
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Code < found[j].Code })
	for _, t := range found {
		logger.Info().
			Int("team_code", t.Code).
			Str("team_name", t.Name).
			Msg("Discovered team code not in known table")
	}
	return found
}

// Resolve returns the display name for code: known table first, then the
// observed list. The second result is false when neither has it.
func (r *Resolver) Resolve(code int) (string, bool) {
	if name, ok := r.known[code]; ok {
		return name, true
	}
	if name, ok := r.observed[code]; ok {
		return name, true
	}
	return "", false
}

// Discovered returns the codes observed this run that the known table lacks.
func (r *Resolver) Discovered() KnownCodes {
	return knownFromMap(r.discovered)
}

// Known returns the known table the resolver was seeded with.
func (r *Resolver) Known() KnownCodes {
	return knownFromMap(r.known)
}

// Merged returns the known table extended with every discovered code.
func (r *Resolver) Merged() KnownCodes {
	merged := make(map[int]string, len(r.known)+len(r.discovered))
	for code, name := range r.known {
		merged[code] = name
	}
	for code, name := range r.discovered {
		merged[code] = name
	}
	return knownFromMap(merged)
}
