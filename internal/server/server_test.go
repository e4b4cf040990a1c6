package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/playermap/internal/server/handlers"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/sync"
)

const registryCSV = "Code,FPL_Name,Web_Name,Understat_ID,Understat_Name,FPL_ID_2024-25,Team_2024-25\n" +
	"100,Test Player,Player,,,1,Arsenal\n"

type fakeStatus struct {
	last *sync.Result
}

func (f *fakeStatus) LastResult() *sync.Result { return f.last }

func newTestServer(t *testing.T, status handlers.StatusProvider) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.csv")
	require.NoError(t, os.WriteFile(path, []byte(registryCSV), 0o644))

	cfg := DefaultConfig()
	cfg.RegistryPath = path
	cfg.CacheTTL = 2 * time.Minute

	logger := zerolog.Nop()
	s, err := New(cfg, &logger, status)
	require.NoError(t, err)
	t.Cleanup(s.Shutdown)
	return s, path
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestServeRegistry(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/registry.csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, registryCSV, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=120", w.Header().Get("Cache-Control"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	head := do(t, h, http.MethodHead, "/registry.csv")
	assert.Equal(t, http.StatusOK, head.Code)
	assert.Empty(t, head.Body.String())
}

func TestServeRegistryPicksUpReplacement(t *testing.T) {
	s, path := newTestServer(t, nil)
	h := s.Handler()

	require.Equal(t, registryCSV, do(t, h, http.MethodGet, "/registry.csv").Body.String())
	assert.Equal(t, 1, s.Cache().ItemCount())

	updated := registryCSV + "101,New,Player,Player,CHE\n"
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(updated), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(tmp, later, later))
	require.NoError(t, os.Rename(tmp, path))

	assert.Equal(t, updated, do(t, h, http.MethodGet, "/registry.csv").Body.String())
}

func TestServeRegistryUnreadable(t *testing.T) {
	s, path := newTestServer(t, nil)
	require.NoError(t, os.Remove(path))

	w := do(t, s.Handler(), http.MethodGet, "/registry.csv")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "registry is not available")
	assert.NotContains(t, w.Body.String(), path)
}

func TestRootAndUnknownRoutes(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, handlers.WelcomeMessage, w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/players.json").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodGet, "/favicon.ico").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		for _, target := range []string{"/", "/registry.csv", "/health"} {
			w := do(t, h, method, target)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", method, target)
			assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
		}
	}
}

func TestHealth(t *testing.T) {
	t.Run("before any sync", func(t *testing.T) {
		s, _ := newTestServer(t, nil)
		w := do(t, s.Handler(), http.MethodGet, "/health")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var body struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body.Data["status"])
		assert.NotContains(t, body.Data, "last_sync")
	})

	t.Run("with last sync", func(t *testing.T) {
		result := sync.NewResult("2024_25", "registry.csv", false)
		result.Stages = append(result.Stages, &sync.StageResult{Name: sync.StageMerge, Status: sync.StatusOK, New: 1})
		s, _ := newTestServer(t, &fakeStatus{last: result})

		w := do(t, s.Handler(), http.MethodGet, "/health")
		var body struct {
			Data struct {
				LastSync map[string]any `json:"last_sync"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "2024_25", body.Data.LastSync["season"])
		assert.Equal(t, false, body.Data.LastSync["failed"])
	})
}

func TestReady(t *testing.T) {
	s, path := newTestServer(t, nil)
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Registry struct {
				Rows    int `json:"rows"`
				Columns int `json:"columns"`
			} `json:"registry"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.Registry.Rows)
	assert.Equal(t, 7, body.Data.Registry.Columns)

	// A header-only file is not a usable registry.
	require.NoError(t, os.WriteFile(path, []byte("Code,FPL_Name\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	w = do(t, h, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "registry file is invalid")

	require.NoError(t, os.Remove(path))
	w = do(t, h, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "does not exist yet")
}

func TestCustomServePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.csv")
	require.NoError(t, os.WriteFile(path, []byte(registryCSV), 0o644))

	cfg := DefaultConfig()
	cfg.RegistryPath = path
	cfg.ServePath = "/data/ids.csv"
	s, err := New(cfg, nil, nil)
	require.NoError(t, err)
	defer s.Shutdown()

	assert.Equal(t, http.StatusOK, do(t, s.Handler(), http.MethodGet, "/data/ids.csv").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s.Handler(), http.MethodGet, "/registry.csv").Code)
}

func TestNewValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RegistryPath = ""
	_, err := New(cfg, nil, nil)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.ServePath = "registry.csv"
	_, err = New(cfg, nil, nil)
	assert.Error(t, err)

	for _, path := range []string{"/health", "/ready", "/favicon.ico", "/{file}", "/a b"} {
		cfg = DefaultConfig()
		cfg.ServePath = path
		_, err = New(cfg, nil, nil)
		assert.True(t, errors.IsValidationError(err), path)
	}

	cfg = DefaultConfig()
	cfg.ServePath = "/data/ids.csv"
	s, err := New(cfg, nil, nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() { s.Handler() })
	s.Shutdown()

	cfg = DefaultConfig()
	cfg.CacheTTL = 0
	s, err = New(cfg, nil, nil)
	require.NoError(t, err)
	defer s.Shutdown()
	assert.Equal(t, DefaultConfig().CacheTTL, s.Config().CacheTTL)
	assert.Equal(t, "0.0.0.0:8080", s.Config().Addr())
}
