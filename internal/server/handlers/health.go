package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/agentstation/playermap/internal/server/cache"
	"github.com/agentstation/playermap/internal/server/response"
	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/registry"
)

// HandleHealth handles GET /health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	data := map[string]any{
		"status":  "healthy",
		"service": "playermap",
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.status != nil {
		if last := h.status.LastResult(); last != nil {
			data["last_sync"] = map[string]any{
				"season":      last.Season,
				"failed":      last.Failed(),
				"summary":     last.Summary(),
				"finished_at": last.FinishedAt.Format(constants.TimeFormatISO8601),
			}
		}
	}
	response.OK(w, data)
}

// HandleReady handles GET /ready: the registry must exist and parse.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	entry, table, err := h.readRegistry()
	if err != nil {
		h.logger.Warn().Err(err).Str("path", h.registryPath).Msg("Registry not ready")
		response.RegistryUnavailable(w, err)
		return
	}

	response.OK(w, map[string]any{
		"status": "ready",
		"registry": map[string]any{
			"rows":        table.Len(),
			"columns":     len(table.Columns()),
			"bytes":       len(entry.Data),
			"modified_at": entry.ModTime.UTC().Format(constants.TimeFormatISO8601),
		},
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
	})
}

func (h *Handlers) readRegistry() (*cache.Entry, *registry.Table, error) {
	entry, _, err := h.cache.ReadFile(h.registryPath)
	if err != nil {
		return nil, nil, err
	}
	table, err := registry.Parse(bytes.NewReader(entry.Data), h.registryPath)
	if err != nil {
		return nil, nil, err
	}
	return entry, table, nil
}
