package reconciler

import (
	"fmt"

	"github.com/agentstation/playermap/pkg/errors"
)

// Change records one external id assignment.
type Change struct {
	Code     string `json:"code" yaml:"code"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Old      string `json:"old,omitempty" yaml:"old,omitempty"`
	New      string `json:"new" yaml:"new"`
	Conflict bool   `json:"conflict,omitempty" yaml:"conflict,omitempty"`
	Applied  bool   `json:"applied,omitempty" yaml:"applied,omitempty"`
}

// Result represents the outcome of a reconciliation pass.
type Result struct {
	Policy     ConflictPolicy
	SourceSize int // codes in the cross-reference mapping

	Examined  int // rows with an integer stable code
	Adopted   int // empty ids filled from the source
	Conflicts int // stored ids the source disagreed with
	Unmapped  int // examined rows the source has no entry for

	Changes  []Change
	Warnings []*errors.DataQualityWarning
}

// Changed reports whether the pass modified any row.
func (r *Result) Changed() bool {
	return r.Applied() > 0
}

// Applied counts the rows the pass modified: adoptions plus conflicts
// resolved in favour of the source.
func (r *Result) Applied() int {
	n := r.Adopted
	for _, c := range r.Changes {
		if c.Conflict && c.Applied {
			n++
		}
	}
	return n
}

// Summary returns a one-line description of the pass.
func (r *Result) Summary() string {
	if r.Adopted == 0 && r.Conflicts == 0 {
		return fmt.Sprintf("No changes (%d rows examined)", r.Examined)
	}
	return fmt.Sprintf("%d adopted, %d conflicts (%d rows examined)", r.Adopted, r.Conflicts, r.Examined)
}
