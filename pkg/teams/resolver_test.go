package teams_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/teams"
)

func TestDefaultKnownCodes(t *testing.T) {
	known, err := teams.DefaultKnownCodes()
	require.NoError(t, err)

	m := known.Map()
	assert.Equal(t, "Arsenal", m[3])
	assert.Equal(t, "Man City", m[43])
	assert.Equal(t, "Nott'm Forest", m[17])
}

func TestResolveOrder(t *testing.T) {
	r := teams.NewResolver(teams.KnownCodes{Teams: []teams.Team{{Code: 3, Name: "Arsenal"}}})
	r.Observe(context.Background(), map[int]string{3: "Arsenal FC", 999: "Expansion FC"})

	name, ok := r.Resolve(3)
	require.True(t, ok)
	assert.Equal(t, "Arsenal", name, "known table wins over observed names")

	name, ok = r.Resolve(999)
	require.True(t, ok)
	assert.Equal(t, "Expansion FC", name)

	name, ok = r.Resolve(12345)
	assert.False(t, ok)
	assert.Equal(t, "", name)
}

func TestObserveReportsDiscoveries(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	r := teams.NewResolver(teams.KnownCodes{Teams: []teams.Team{{Code: 3, Name: "Arsenal"}}})
	found := r.Observe(ctx, map[int]string{3: "Arsenal", 57: "Watford", 45: "Norwich"})

	assert.Equal(t, []teams.Team{{Code: 45, Name: "Norwich"}, {Code: 57, Name: "Watford"}}, found)
	tl.AssertContains(t, "Discovered team code not in known table")
	tl.AssertContains(t, `"team_code":57`)

	assert.Empty(t, r.Observe(ctx, map[int]string{57: "Watford"}), "a code is only reported once")
	assert.Equal(t, []teams.Team{{Code: 45, Name: "Norwich"}, {Code: 57, Name: "Watford"}}, r.Discovered().Teams)
	assert.Len(t, r.Known().Teams, 1, "known table is not extended in memory")
	assert.Len(t, r.Merged().Teams, 3)
}

func TestSaveAndLoadKnownCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams", "known.yaml")
	in := teams.KnownCodes{Teams: []teams.Team{{Code: 57, Name: "Watford"}, {Code: 3, Name: "Arsenal"}}}

	require.NoError(t, teams.SaveKnownCodes(path, in))
	out, err := teams.LoadKnownCodes(path)
	require.NoError(t, err)
	assert.Equal(t, []teams.Team{{Code: 3, Name: "Arsenal"}, {Code: 57, Name: "Watford"}}, out.Teams)
}

func TestLoadKnownCodesErrors(t *testing.T) {
	_, err := teams.LoadKnownCodes(filepath.Join(t.TempDir(), "missing.yaml"))
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("teams: [code: {"), 0o644))
	_, err = teams.LoadKnownCodes(bad)
	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestLoadKnownCodesEmptyPathUsesDefault(t *testing.T) {
	known, err := teams.LoadKnownCodes("")
	require.NoError(t, err)
	assert.NotEmpty(t, known.Teams)
}
