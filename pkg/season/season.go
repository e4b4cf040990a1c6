// Package season derives competition season tags and the season-scoped
// registry columns they imply, and evolves a registry schema forward when
// a season is first seen.
package season

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/registry"
)

// Column name prefixes for the per-season column pair.
const (
	ProviderIDPrefix = "FPL_ID_"
	TeamPrefix       = "Team_"
)

var tagPattern = regexp.MustCompile(`^(\d{4})[_-](\d{2})$`)

// Season identifies one competition season by the calendar year it starts in.
type Season struct {
	StartYear int
}

// Columns is the pair of registry columns scoped to a season.
type Columns struct {
	ProviderID string
	Team       string
}

// Current returns the season in progress at now. Months January through
// June belong to the season that started the previous calendar year;
// July onward starts a new one.
func Current(now time.Time) Season {
	year := now.Year()
	if now.Month() < time.July {
		year--
	}
	return Season{StartYear: year}
}

// Now returns the season in progress according to the UTC clock.
func Now() Season {
	return Current(utc.Now().Time)
}

// Parse reads a season tag such as "2024_25" or "2024-25". The two-digit
// suffix must be the year after the start year.
func Parse(tag string) (Season, error) {
	m := tagPattern.FindStringSubmatch(tag)
	if m == nil {
		return Season{}, errors.NewValidationError("season", tag, "expected <startYear>_<yy>, e.g. 2024_25")
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	s := Season{StartYear: start}
	if end != s.endSuffix() {
		return Season{}, errors.NewValidationError("season", tag, fmt.Sprintf("end year must be %02d", s.endSuffix()))
	}
	return s, nil
}

func (s Season) endSuffix() int {
	return (s.StartYear + 1) % 100
}

// Tag returns the internal season tag, e.g. "2024_25".
func (s Season) Tag() string {
	return fmt.Sprintf("%d_%02d", s.StartYear, s.endSuffix())
}

// Display returns the season as used in column names, e.g. "2024-25".
func (s Season) Display() string {
	return fmt.Sprintf("%d-%02d", s.StartYear, s.endSuffix())
}

// String implements fmt.Stringer.
func (s Season) String() string {
	return s.Tag()
}

// Columns returns the provider-id and team column names for the season.
func (s Season) Columns() Columns {
	return Columns{
		ProviderID: ProviderIDPrefix + s.Display(),
		Team:       TeamPrefix + s.Display(),
	}
}

// Evolve appends the season's column pair to the table schema when absent
// and back-fills every row with "". Existing columns keep their order and
// values. It returns the columns added; a second call adds nothing.
func Evolve(t *registry.Table, s Season) []string {
	cols := s.Columns()
	return t.AddColumns(cols.ProviderID, cols.Team)
}

// Observed lists the seasons whose provider-id column is present in the
// schema, oldest first.
func Observed(schema *registry.Schema) []Season {
	var out []Season
	for _, c := range schema.Columns() {
		if len(c) <= len(ProviderIDPrefix) || c[:len(ProviderIDPrefix)] != ProviderIDPrefix {
			continue
		}
		s, err := Parse(c[len(ProviderIDPrefix):])
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartYear < out[j].StartYear })
	return out
}
