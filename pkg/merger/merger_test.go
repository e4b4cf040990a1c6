package merger_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/merger"
	"github.com/agentstation/playermap/pkg/registry"
	"github.com/agentstation/playermap/pkg/season"
	"github.com/agentstation/playermap/pkg/sources"
	"github.com/agentstation/playermap/pkg/teams"
)

var season2024 = season.Season{StartYear: 2024}

func testResolver() *teams.Resolver {
	return teams.NewResolver(teams.KnownCodes{Teams: []teams.Team{
		{Code: 3, Name: "Arsenal"},
		{Code: 14, Name: "Liverpool"},
	}})
}

func loadTable(t *testing.T, csv string) *registry.Table {
	t.Helper()
	table, err := registry.Parse(strings.NewReader(csv), "registry.csv")
	require.NoError(t, err)
	return table
}

func countKind(ws []*errors.DataQualityWarning, kind errors.WarningKind) int {
	n := 0
	for _, w := range ws {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

func TestMergeNewPlayerWithoutExternalID(t *testing.T) {
	table := loadTable(t, "Code,FPL_Name,Web_Name,Understat_ID,Understat_Name\n1,Old Player,Old,55,Old Player\n")

	records := []sources.PlayerRecord{
		{Code: 100, FirstName: "Test", SecondName: "Player", WebName: "Player", ID: 7, TeamCode: 3, MinutesPlayed: 90},
	}
	result := merger.New(testResolver(), season2024).Merge(context.Background(), table, records)

	require.Equal(t, 2, table.Len())
	row := table.Row(1)
	assert.Equal(t, "100", row.Code())
	assert.Equal(t, "Test Player", row.Get(registry.ColumnName))
	assert.Equal(t, "Player", row.Get(registry.ColumnShortName))
	assert.Equal(t, "", row.ExternalID())
	assert.Equal(t, "7", row.Get("FPL_ID_2024-25"))
	assert.Equal(t, "Arsenal", row.Get("Team_2024-25"))

	assert.Equal(t, 1, result.New)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, []string{"FPL_ID_2024-25", "Team_2024-25"}, result.ColumnsAdded)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, errors.WarningMissingExternalID, result.Warnings[0].Kind)
	assert.Equal(t, "100", result.Warnings[0].Code)
	assert.Equal(t, []merger.Player{{Code: 100, Name: "Test Player", Team: "Arsenal"}}, result.NewPlayers)
}

func TestMergeRowCount(t *testing.T) {
	table := loadTable(t, "Code,FPL_Name,Web_Name,Understat_ID,Understat_Name\n1,A,A,,\n2,B,B,,\n3,C,C,,\n")

	// Two of the four records match existing rows.
	records := []sources.PlayerRecord{
		{Code: 2, FirstName: "B", SecondName: "Two", WebName: "B2", ID: 20, TeamCode: 3},
		{Code: 10, FirstName: "X", SecondName: "Ten", WebName: "X", ID: 21, TeamCode: 3},
		{Code: 3, FirstName: "C", SecondName: "Three", WebName: "C3", ID: 22, TeamCode: 14},
		{Code: 11, FirstName: "Y", SecondName: "Eleven", WebName: "Y", ID: 23, TeamCode: 14},
	}
	result := merger.New(testResolver(), season2024).Merge(context.Background(), table, records)

	assert.Equal(t, 3+(4-2), table.Len())
	assert.Equal(t, 2, result.New)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 3, result.RowsBefore)
	assert.Equal(t, 5, result.RowsAfter)

	var codes []string
	for _, row := range table.Rows() {
		codes = append(codes, row.Code())
	}
	assert.Equal(t, []string{"1", "2", "3", "10", "11"}, codes, "existing order kept, new rows in snapshot order")
}

func TestMergeUpdatesCurrentSeasonOnly(t *testing.T) {
	table := loadTable(t, strings.Join([]string{
		"Code,FPL_Name,Web_Name,Understat_ID,Understat_Name,FPL_ID_2023-24,Team_2023-24",
		"100,Old Name,Old,555,Understat Name,42,Liverpool",
	}, "\n")+"\n")

	records := []sources.PlayerRecord{
		{Code: 100, FirstName: "New", SecondName: "Name", WebName: "Name", ID: 9, TeamCode: 3, MinutesPlayed: 900},
	}
	result := merger.New(testResolver(), season2024).Merge(context.Background(), table, records)

	require.Equal(t, 1, table.Len())
	row := table.Row(0)
	assert.Equal(t, "New Name", row.Get(registry.ColumnName))
	assert.Equal(t, "Name", row.Get(registry.ColumnShortName))
	assert.Equal(t, "555", row.ExternalID(), "external id is not owned by the snapshot")
	assert.Equal(t, "Understat Name", row.Get(registry.ColumnExternalName))
	assert.Equal(t, "42", row.Get("FPL_ID_2023-24"), "earlier seasons are untouched")
	assert.Equal(t, "Liverpool", row.Get("Team_2023-24"))
	assert.Equal(t, "9", row.Get("FPL_ID_2024-25"))
	assert.Equal(t, "Arsenal", row.Get("Team_2024-25"))

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Changed)
	assert.Empty(t, result.Warnings, "player has an external id")
}

func TestMergeNormalizesStoredCodes(t *testing.T) {
	table := loadTable(t, "Code,FPL_Name,Web_Name,Understat_ID,Understat_Name\n 0100 ,Padded,P,1,\nabc,Text Code,T,,\n")

	records := []sources.PlayerRecord{
		{Code: 100, FirstName: "Padded", SecondName: "Code", WebName: "P", ID: 1, TeamCode: 3},
	}
	result := merger.New(testResolver(), season2024).Merge(context.Background(), table, records)

	assert.Equal(t, 2, table.Len(), "padded integer code matches")
	assert.Equal(t, " 0100 ", table.Row(0).Code(), "stored code is not rewritten")
	assert.Equal(t, "Padded Code", table.Row(0).Get(registry.ColumnName))
	assert.Equal(t, 1, countKind(result.Warnings, errors.WarningUnmatchedCode))
}

func TestMergeUnresolvedTeam(t *testing.T) {
	table := loadTable(t, "Code,FPL_Name,Web_Name,Understat_ID,Understat_Name\n1,A,A,,\n")

	records := []sources.PlayerRecord{
		{Code: 5, FirstName: "A", SecondName: "One", WebName: "A", ID: 1, TeamCode: 77},
		{Code: 6, FirstName: "B", SecondName: "Two", WebName: "B", ID: 2, TeamCode: 77},
	}
	result := merger.New(testResolver(), season2024).Merge(context.Background(), table, records)

	assert.Equal(t, "", table.Row(1).Get("Team_2024-25"))
	assert.Equal(t, "", table.Row(2).Get("Team_2024-25"))
	assert.Equal(t, 1, countKind(result.Warnings, errors.WarningUnresolvedTeam), "one warning per unresolved team code")
}

func TestMergeObservedTeamNames(t *testing.T) {
	table := loadTable(t, "Code,FPL_Name,Web_Name,Understat_ID,Understat_Name\n1,A,A,,\n")

	resolver := testResolver()
	resolver.Observe(context.Background(), map[int]string{77: "Expansion FC"})

	records := []sources.PlayerRecord{{Code: 5, FirstName: "A", SecondName: "One", WebName: "A", ID: 1, TeamCode: 77}}
	result := merger.New(resolver, season2024).Merge(context.Background(), table, records)

	assert.Equal(t, "Expansion FC", table.Row(1).Get("Team_2024-25"))
	assert.Empty(t, result.Warnings)
}

func TestMergeAddsMissingBaseColumns(t *testing.T) {
	table := loadTable(t, "Code,FPL_Name\n1,A\n")

	result := merger.New(testResolver(), season2024).Merge(context.Background(), table, nil)

	assert.Equal(t, []string{
		"Code", "FPL_Name", "Web_Name", "Understat_ID", "Understat_Name", "FPL_ID_2024-25", "Team_2024-25",
	}, table.Columns())
	assert.Len(t, result.ColumnsAdded, 5)
	assert.True(t, result.HasChanges())
}

func TestMergeIsIdempotent(t *testing.T) {
	table := loadTable(t, "Code,FPL_Name,Web_Name,Understat_ID,Understat_Name\n1,A,A,,\n")
	records := []sources.PlayerRecord{
		{Code: 1, FirstName: "A", SecondName: "One", WebName: "A", ID: 1, TeamCode: 3},
		{Code: 2, FirstName: "B", SecondName: "Two", WebName: "B", ID: 2, TeamCode: 14},
	}
	m := merger.New(testResolver(), season2024)

	first := m.Merge(context.Background(), table, records)
	assert.True(t, first.HasChanges())
	snapshot := table.Records()

	second := m.Merge(context.Background(), table, records)
	assert.False(t, second.HasChanges())
	assert.Equal(t, 0, second.New)
	assert.Equal(t, 2, second.Updated)
	assert.Equal(t, snapshot, table.Records())
}

func TestMergeLogsNewPlayers(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	table := loadTable(t, "Code,FPL_Name,Web_Name,Understat_ID,Understat_Name\n1,A,A,,\n")
	records := []sources.PlayerRecord{{Code: 100, FirstName: "Test", SecondName: "Player", WebName: "P", ID: 7, TeamCode: 3}}
	merger.New(testResolver(), season2024).Merge(ctx, table, records)

	assert.True(t, tl.ContainsAll(`"message":"New player"`, `"code":100`, `"name":"Test Player"`))
	tl.AssertContains(t, `"message":"Merged provider snapshot"`)
}

func TestResultSummary(t *testing.T) {
	r := &merger.Result{Season: season2024, Processed: 10, New: 2, Updated: 8, Changed: 3}
	assert.Equal(t, "2024_25: 10 processed, 2 new, 8 updated (3 changed), 0 warnings", r.Summary())
}
