package response

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/playermap/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]string{"status": "healthy"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp := decode(t, w)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"status": "healthy"}, resp.Data)
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	NotFound(w, "/players.json")

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "/players.json")
	assert.Nil(t, resp.Data)
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowed(w, http.MethodPost)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, AllowedMethods, w.Header().Get("Allow"))
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotAllowed, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "POST")
}

func TestRateLimited(t *testing.T) {
	w := httptest.NewRecorder()
	RateLimited(w, "192.0.2.1", time.Minute)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, CodeRateLimited, decode(t, w).Error.Code)
}

func TestInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Internal server error", resp.Error.Message)
	assert.Empty(t, resp.Error.Details)
}

func TestRegistryUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		details string
	}{
		{"missing file", fmt.Errorf("stat: %w", fs.ErrNotExist), "registry file does not exist yet"},
		{"invalid file", errors.NewStorageError("load", "/srv/registry.csv", errors.ErrRegistryEmpty), "registry file is invalid"},
		{"other", stderrors.New("permission denied on /srv/registry.csv"), "registry cannot be read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RegistryUnavailable(w, tt.err)

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, CodeRegistryUnavailable, resp.Error.Code)
			assert.Equal(t, tt.details, resp.Error.Details)
			assert.NotContains(t, w.Body.String(), "/srv")
		})
	}
}
