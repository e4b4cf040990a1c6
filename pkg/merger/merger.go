// Package merger merges a provider snapshot into the player registry.
// Records are matched to rows by stable code; matched rows are refreshed
// for the current season, unmatched records become new rows appended in
// snapshot order, and no row is ever removed.
package merger

import (
	"context"
	"strconv"
	"strings"

	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/registry"
	"github.com/agentstation/playermap/pkg/season"
	"github.com/agentstation/playermap/pkg/sources"
	"github.com/agentstation/playermap/pkg/teams"
)

// Merger applies provider snapshots to a registry for one season.
type Merger struct {
	resolver *teams.Resolver
	season   season.Season
}

// New creates a merger resolving team names through resolver and writing
// the column pair of s.
func New(resolver *teams.Resolver, s season.Season) *Merger {
	return &Merger{resolver: resolver, season: s}
}

// Season returns the season the merger writes.
func (m *Merger) Season() season.Season {
	return m.season
}

// Merge applies records to table in order. The schema is first extended
// with any missing identity columns and the season's column pair.
func (m *Merger) Merge(ctx context.Context, table *registry.Table, records []sources.PlayerRecord) *Result {
	logger := logging.FromContext(ctx)
	cols := m.season.Columns()

	result := &Result{Season: m.season, RowsBefore: table.Len()}
	result.ColumnsAdded = append(result.ColumnsAdded, table.AddColumns(registry.BaseColumns()...)...)
	result.ColumnsAdded = append(result.ColumnsAdded, season.Evolve(table, m.season)...)
	if len(result.ColumnsAdded) > 0 {
		logger.Info().Strs("columns", result.ColumnsAdded).Msg("Extended registry schema")
	}

	index := table.IndexByCode()
	for _, raw := range index.Unmatchable {
		result.warn(logger, errors.NewDataQualityWarning(errors.WarningUnmatchedCode, raw, "",
			"stored code is not an integer and cannot match any provider record"))
	}

	unresolved := make(map[int]bool)
	for _, rec := range records {
		result.Processed++
		name := rec.DisplayName()

		team, ok := m.resolver.Resolve(rec.TeamCode)
		if !ok && !unresolved[rec.TeamCode] {
			unresolved[rec.TeamCode] = true
			result.warn(logger, errors.NewDataQualityWarning(errors.WarningUnresolvedTeam, strconv.FormatInt(rec.Code, 10), name,
				"team code "+strconv.Itoa(rec.TeamCode)+" has no known display name"))
		}

		var row registry.Row
		if pos, found := index.Lookup(rec.Code); found {
			row = table.Row(pos)
			if apply(row, rec, name, team, cols) {
				result.Changed++
			}
			result.Updated++
		} else {
			row = table.NewRow()
			row.Set(registry.ColumnCode, strconv.FormatInt(rec.Code, 10))
			apply(row, rec, name, team, cols)
			table.Append(row)
			index.Put(rec.Code, table.Len()-1)

			result.New++
			result.NewPlayers = append(result.NewPlayers, Player{Code: rec.Code, Name: name, Team: team})
			logger.Info().
				Int64("code", rec.Code).
				Str("name", name).
				Str("team", team).
				Msg("New player")
		}

		if rec.MinutesPlayed > 0 && strings.TrimSpace(row.ExternalID()) == "" {
			result.warn(logger, errors.NewDataQualityWarning(errors.WarningMissingExternalID, strconv.FormatInt(rec.Code, 10), name,
				"played "+strconv.Itoa(rec.MinutesPlayed)+" minutes but has no external id"))
		}
	}

	result.RowsAfter = table.Len()
	logger.Info().
		Int("processed", result.Processed).
		Int("new", result.New).
		Int("updated", result.Updated).
		Int("changed", result.Changed).
		Int("warnings", len(result.Warnings)).
		Msg("Merged provider snapshot")
	return result
}

// apply overwrites the snapshot-owned fields of row and reports whether
// any value changed.
func apply(row registry.Row, rec sources.PlayerRecord, name, team string, cols season.Columns) bool {
	updates := [...][2]string{
		{registry.ColumnName, name},
		{registry.ColumnShortName, rec.WebName},
		{cols.ProviderID, strconv.FormatInt(rec.ID, 10)},
		{cols.Team, team},
	}
	changed := false
	for _, u := range updates {
		if row.Get(u[0]) != u[1] {
			row.Set(u[0], u[1])
			changed = true
		}
	}
	return changed
}
