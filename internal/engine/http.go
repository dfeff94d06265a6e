package engine

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tapforge/internal/player"
)

// Handler exposes the engine over request/response JSON. Every call names
// its player explicitly; there is no ambient current user.
type Handler struct {
	engine Engine
}

func NewHandler(e Engine) *Handler {
	return &Handler{engine: e}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reports the error taxonomy in a structured body so clients can
// render a precise message without parsing free text.
func writeError(w http.ResponseWriter, err error) {
	var reqErr *RequirementsNotMetError
	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": reqErr.Error(),
			"code":  "requirements_not_met",
			"level": reqErr.Level,
			"unmet": reqErr.Unmet,
		})
	case errors.Is(err, ErrUnknownUpgrade):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error(), "code": "unknown_upgrade"})
	case errors.Is(err, ErrInsufficientEnergy):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "code": "insufficient_energy"})
	case errors.Is(err, ErrInsufficientFunds):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "code": "insufficient_funds"})
	case errors.Is(err, ErrMaxLevelReached):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "code": "max_level_reached"})
	case errors.Is(err, ErrNotUnlocked):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "code": "not_unlocked"})
	case errors.Is(err, player.ErrConcurrentModification):
		// Always a retry signal for the client, never swallowed.
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "code": "concurrent_modification"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
}

func playerIDFromQuery(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("player"))
}

type playerRequest struct {
	PlayerID  string `json:"playerId"`
	UpgradeID string `json:"upgradeId,omitempty"`
}

func decodePlayerRequest(w http.ResponseWriter, r *http.Request) (playerRequest, bool) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json body"})
		return req, false
	}
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "playerId is required"})
		return req, false
	}
	return req, true
}

// State handles GET /api/player/state?player=ID.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	playerID := playerIDFromQuery(r)
	if playerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "player query param is required"})
		return
	}
	view, err := h.engine.State(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Tap handles POST /api/player/tap.
func (h *Handler) Tap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, ok := decodePlayerRequest(w, r)
	if !ok {
		return
	}
	res, err := h.engine.Tap(r.Context(), req.PlayerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Buy handles POST /api/shop/buy.
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, ok := decodePlayerRequest(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.UpgradeID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "upgradeId is required"})
		return
	}
	res, err := h.engine.Buy(r.Context(), req.PlayerID, req.UpgradeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Advance handles POST /api/level/advance.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, ok := decodePlayerRequest(w, r)
	if !ok {
		return
	}
	res, err := h.engine.Advance(r.Context(), req.PlayerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Shop handles GET /api/shop?player=ID, listing only unlocked upgrades.
func (h *Handler) Shop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	playerID := playerIDFromQuery(r)
	if playerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "player query param is required"})
		return
	}
	view, err := h.engine.State(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"player":   view.Player,
		"upgrades": VisibleQuotes(view.Player, view.Ledger, h.engine.Catalog),
	})
}
