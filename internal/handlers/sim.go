package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arko-chat/adbridge/internal/adbridge"
)

type failRequest struct {
	AdUnitID string `json:"adUnitId"`
	Reason   string `json:"reason"`
}

// HandleSimFail makes the next load for an ad unit fail.
func (h *Handler) HandleSimFail(w http.ResponseWriter, r *http.Request) {
	if h.sim == nil {
		http.NotFound(w, r)
		return
	}

	var req failRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxActionSize)).Decode(&req); err != nil {
		h.serverError(w, r, fmt.Errorf("%w: decode fail request: %v", adbridge.ErrInvalidArgument, err))
		return
	}
	if strings.TrimSpace(req.AdUnitID) == "" {
		h.serverError(w, r, fmt.Errorf("%w: empty ad unit id", adbridge.ErrInvalidArgument))
		return
	}
	if req.Reason == "" {
		req.Reason = "simulated failure"
	}

	h.sim.FailNext(req.AdUnitID, req.Reason)
	h.writeJSON(w, http.StatusOK, req)
}

// HandleSimLocation publishes a location fix to every subscribed unit.
func (h *Handler) HandleSimLocation(w http.ResponseWriter, r *http.Request) {
	if h.sim == nil {
		http.NotFound(w, r)
		return
	}

	var loc adbridge.Location
	if err := json.NewDecoder(io.LimitReader(r.Body, maxActionSize)).Decode(&loc); err != nil {
		h.serverError(w, r, fmt.Errorf("%w: decode location: %v", adbridge.ErrInvalidArgument, err))
		return
	}

	n := h.sim.PublishLocation(loc)
	h.writeJSON(w, http.StatusOK, map[string]int{"subscribers": n})
}
