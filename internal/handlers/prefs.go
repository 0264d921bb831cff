package handlers

import (
	"fmt"
	"net/http"

	"github.com/arko-chat/adbridge/internal/adbridge"
	"github.com/go-chi/chi/v5"
)

// Preferences is the per-unit state kept across runs.
type Preferences interface {
	Units() ([]string, error)
	Forget(adUnitID string) error
}

func (h *Handler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	units, err := h.prefs.Units()
	if err != nil {
		h.serverError(w, r, fmt.Errorf("list preferences: %w", err))
		return
	}
	if units == nil {
		units = []string{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"units": units})
}

// HandleForgetPreferences clears what was saved for one unit. Bridges that
// already exist keep their current settings; the next run starts clean.
func (h *Handler) HandleForgetPreferences(w http.ResponseWriter, r *http.Request) {
	unit := chi.URLParam(r, "adUnitId")
	if unit == "" {
		h.serverError(w, r, fmt.Errorf("%w: empty ad unit id", adbridge.ErrInvalidArgument))
		return
	}
	if err := h.prefs.Forget(unit); err != nil {
		h.serverError(w, r, fmt.Errorf("forget %s: %w", unit, err))
		return
	}
	h.logger.Info("preferences forgotten", "unit", unit)
	w.WriteHeader(http.StatusNoContent)
}
