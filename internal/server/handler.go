package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ramkansal/linkscope/internal/scraper"
	"github.com/ramkansal/linkscope/pkg/plugin"
)

const noDataWarning = "no preview data could be extracted"

// Handler serves the preview endpoints.
type Handler struct {
	scraper *scraper.Scraper
	logger  *zap.Logger
}

// PreviewResponse is the body of every /api/preview response.
type PreviewResponse struct {
	Success bool            `json:"success"`
	Data    *plugin.Preview `json:"data"`
	Warning string          `json:"warning,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Preview handles GET /api/preview?url=.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if target == "" {
		writeJSON(w, http.StatusBadRequest, PreviewResponse{Error: "url query parameter is required"})
		return
	}

	p := h.scraper.Scrape(r.Context(), target)
	if p == nil {
		writeJSON(w, http.StatusOK, PreviewResponse{Warning: noDataWarning})
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{Success: true, Data: p})
}

// DeleteCache handles DELETE /api/preview/cache[?url=]. With a url it
// drops that entry, otherwise the whole cache.
func (h *Handler) DeleteCache(w http.ResponseWriter, r *http.Request) {
	c := h.scraper.Cache()
	if target := r.URL.Query().Get("url"); target != "" {
		c.Delete(target)
		h.logger.Info("cache entry deleted", zap.String("url", target))
	} else {
		c.Clear()
		h.logger.Info("cache cleared")
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entries": c.Len(),
	})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"stats":  h.scraper.Stats(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
