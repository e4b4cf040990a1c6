package sources_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/playermap/pkg/sources"
)

func TestSnapshotDecoding(t *testing.T) {
	raw := `{
		"elements": [{"code": 223340, "id": 17, "first_name": "Bukayo", "second_name": "Saka",
			"web_name": "Saka", "team_code": 3, "minutes": 2700, "now_cost": 100}],
		"teams": [{"code": 3, "id": 1, "name": "Arsenal"}, {"code": 43, "name": ""}]
	}`

	var snap sources.Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	require.Len(t, snap.Elements, 1)

	p := snap.Elements[0]
	assert.Equal(t, int64(223340), p.Code)
	assert.Equal(t, int64(17), p.ID)
	assert.Equal(t, "Bukayo Saka", p.DisplayName())
	assert.Equal(t, 2700, p.MinutesPlayed)
	assert.Equal(t, map[int]string{3: "Arsenal"}, snap.TeamNames())
}

func TestCrossRefSet(t *testing.T) {
	ref := sources.NewCrossRef()
	ref.Set(100, "7322")
	ref.Set(200, "")
	ref.Set(100, "")
	ref.Set(200, "8260")
	ref.Set(300, "1")

	id, ok := ref.Get(100)
	require.True(t, ok)
	assert.Equal(t, "7322", id, "empty value never clears a known id")

	id, _ = ref.Get(200)
	assert.Equal(t, "8260", id)

	assert.Equal(t, []int64{100, 200, 300}, ref.Codes())
	assert.Equal(t, 3, ref.Len())

	_, ok = ref.Get(999)
	assert.False(t, ok)
}
