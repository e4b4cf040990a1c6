package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/playermap"
	"github.com/agentstation/playermap/internal/appcontext"
	"github.com/agentstation/playermap/pkg/errors"
)

const registryCSV = "Code,FPL_Name,Web_Name,Understat_ID,Understat_Name,FPL_ID_2023-24,Team_2023-24\n" +
	"1,Old One,One,,,11,Arsenal\n"

const snapshotJSON = `{
  "elements": [
    {"code": 1, "id": 101, "first_name": "New", "second_name": "One", "web_name": "One", "team_code": 3, "minutes": 90},
    {"code": 100, "id": 103, "first_name": "Test", "second_name": "Player", "web_name": "Player", "team_code": 3, "minutes": 90}
  ],
  "teams": [{"code": 3, "name": "Arsenal"}]
}`

const crossRefCSV = "code,understat\n1,111\n"

type harness struct {
	registry string
	app      *appcontext.Mock
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func newHarness(t *testing.T, crossRefStatus int) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{registry: filepath.Join(dir, "registry.csv")}
	require.NoError(t, os.WriteFile(h.registry, []byte(registryCSV), 0o644))

	bootstrap := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(snapshotJSON))
	}))
	crossRef := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(crossRefStatus)
		_, _ = w.Write([]byte(crossRefCSV))
	}))
	t.Cleanup(bootstrap.Close)
	t.Cleanup(crossRef.Close)

	client, err := playermap.New(
		playermap.WithRegistryPath(h.registry),
		playermap.WithBootstrapURL(bootstrap.URL),
		playermap.WithCrossRefURL(crossRef.URL),
	)
	require.NoError(t, err)

	h.app = &appcontext.Mock{
		ClientFunc: func() (playermap.Client, error) { return client, nil },
		Format:     "json",
	}
	return h
}

func (h *harness) run(t *testing.T, flags *Flags) error {
	t.Helper()
	cmd := NewCommand(h.app)
	cmd.SetContext(context.Background())
	return Run(cmd, h.app, flags, &h.stdout, &h.stderr)
}

func TestRunJSON(t *testing.T) {
	h := newHarness(t, http.StatusOK)

	require.NoError(t, h.run(t, &Flags{Season: "2024_25"}))

	var result struct {
		Season string `json:"season"`
		Stages []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
			New    int    `json:"new"`
		} `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &result))
	assert.Equal(t, "2024_25", result.Season)
	require.Len(t, result.Stages, 2)
	assert.Equal(t, "merge", result.Stages[0].Name)
	assert.Equal(t, 1, result.Stages[0].New)
	assert.Equal(t, "ok", result.Stages[1].Status)

	data, err := os.ReadFile(h.registry)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FPL_ID_2024-25")
	assert.Contains(t, string(data), "100,")
}

func TestRunTableWithReport(t *testing.T) {
	h := newHarness(t, http.StatusOK)
	h.app.Format = "table"
	reportPath := filepath.Join(t.TempDir(), "report.md")

	require.NoError(t, h.run(t, &Flags{Season: "2024_25", Report: reportPath}))
	assert.Contains(t, h.stdout.String(), "merge")
	assert.Contains(t, h.stderr.String(), "merge: 1 new")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Registry sync succeeded for season 2024_25")
}

func TestRunQuiet(t *testing.T) {
	h := newHarness(t, http.StatusOK)
	h.app.Format = "table"
	h.app.QuietMode = true

	require.NoError(t, h.run(t, &Flags{Season: "2024_25"}))
	assert.Empty(t, h.stderr.String())
}

func TestRunFailedStageStillRenders(t *testing.T) {
	h := newHarness(t, http.StatusBadGateway)

	err := h.run(t, &Flags{Season: "2024_25"})
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.Contains(t, h.stdout.String(), `"status": "failed"`)

	data, readErr := os.ReadFile(h.registry)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "FPL_ID_2024-25", "merge write is kept")
}

func TestRunDryRun(t *testing.T) {
	h := newHarness(t, http.StatusOK)

	require.NoError(t, h.run(t, &Flags{Season: "2024_25", DryRun: true}))

	data, err := os.ReadFile(h.registry)
	require.NoError(t, err)
	assert.Equal(t, registryCSV, string(data))
}

func TestFlagsOptions(t *testing.T) {
	_, err := (&Flags{Season: "2024"}).Options()
	assert.True(t, errors.IsValidationError(err))

	opts, err := (&Flags{Season: "2023_24", NoReconcile: true}).Options()
	require.NoError(t, err)
	assert.Len(t, opts, 5)
}

func TestRunInvalidFormat(t *testing.T) {
	h := newHarness(t, http.StatusOK)
	h.app.Format = "xml"

	err := h.run(t, &Flags{Season: "2024_25"})
	assert.True(t, errors.IsValidationError(err))
}

func TestNewCommandFlags(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	for _, name := range []string{"dry-run", "fail-fast", "no-merge", "no-reconcile", "season", "timeout", "report"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
