package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/agentstation/playermap/internal/server/response"
)

// WelcomeMessage is the body of the root route.
const WelcomeMessage = "playermap: football player id registry. GET /registry.csv for the latest mapping.\n"

// HandleRoot handles GET /.
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		response.NotFound(w, r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(WelcomeMessage))
}

// HandleRegistry serves the registry file bytes verbatim.
func (h *Handlers) HandleRegistry(w http.ResponseWriter, r *http.Request) {
	entry, hit, err := h.cache.ReadFile(h.registryPath)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("path", h.registryPath).
			Msg("Cannot read registry")
		http.Error(w, "registry is not available", http.StatusInternalServerError)
		return
	}

	h.logger.Debug().
		Bool("cache_hit", hit).
		Int("bytes", len(entry.Data)).
		Msg("Serving registry")

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.cacheTTL/time.Second)))
	http.ServeContent(w, r, "", entry.ModTime, bytes.NewReader(entry.Data))
}
