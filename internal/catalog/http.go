package catalog

import (
	"encoding/json"
	"net/http"
)

// Handler serves the read-only catalog views. Admin mutation of the catalog
// happens elsewhere; this engine only ever reads it.
type Handler struct {
	catalog *Catalog
}

func NewHandler(c *Catalog) *Handler {
	return &Handler{catalog: c}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Upgrades handles GET /api/catalog/upgrades.
func (h *Handler) Upgrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"upgrades": h.catalog.Upgrades()})
}

// Requirements handles GET /api/catalog/requirements.
func (h *Handler) Requirements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"levels": h.catalog.Requirements()})
}
