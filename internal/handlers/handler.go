package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/arko-chat/adbridge/internal/adbridge"
	"github.com/arko-chat/adbridge/internal/cache"
	"github.com/arko-chat/adbridge/internal/command"
	"github.com/arko-chat/adbridge/internal/ws"
)

const snapshotTTL = time.Second

// Simulator drives the simulated ad network from the outside.
type Simulator interface {
	FailNext(adUnitID, reason string)
	PublishLocation(loc adbridge.Location) int
}

type Handler struct {
	dispatcher *command.Dispatcher
	sim        Simulator
	prefs      Preferences
	registry   *adbridge.Registry
	hub        *ws.Hub
	snapshots  *cache.Cache[[]adbridge.Info]
	baseURL    string
	logger     *slog.Logger
}

func New(
	dispatcher *command.Dispatcher,
	registry *adbridge.Registry,
	hub *ws.Hub,
	sim Simulator,
	prefs Preferences,
	baseURL string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		sim:        sim,
		prefs:      prefs,
		registry:   registry,
		hub:        hub,
		snapshots:  cache.New[[]adbridge.Info](snapshotTTL),
		baseURL:    baseURL,
		logger:     logger,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", "err", err)
	}
}

func (h *Handler) serverError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
) {
	if errors.Is(err, adbridge.ErrInvalidArgument) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Error("handler error", "path", r.URL.Path, "err", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
