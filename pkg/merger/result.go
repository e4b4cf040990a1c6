package merger

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/season"
)

// Player identifies a registry row created by a merge.
type Player struct {
	Code int64  `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
	Team string `json:"team,omitempty" yaml:"team,omitempty"`
}

// Result describes what a merge did to the registry.
type Result struct {
	Season       season.Season
	ColumnsAdded []string

	Processed int // snapshot records seen
	New       int // rows appended
	Updated   int // existing rows matched
	Changed   int // matched rows whose values differed

	RowsBefore int
	RowsAfter  int

	NewPlayers []Player
	Warnings   []*errors.DataQualityWarning
}

// HasChanges reports whether the merge altered the registry.
func (r *Result) HasChanges() bool {
	return r.New > 0 || r.Changed > 0 || len(r.ColumnsAdded) > 0
}

// Summary returns a one-line description of the merge.
func (r *Result) Summary() string {
	return fmt.Sprintf("%s: %d processed, %d new, %d updated (%d changed), %d warnings",
		r.Season, r.Processed, r.New, r.Updated, r.Changed, len(r.Warnings))
}

func (r *Result) warn(logger *zerolog.Logger, w *errors.DataQualityWarning) {
	r.Warnings = append(r.Warnings, w)
	logging.DataQuality(logger, w)
}
