package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/arko-chat/adbridge/internal/adbridge"
	"github.com/arko-chat/adbridge/internal/command"
)

const maxActionSize = 64 << 10

// HandleCommand runs one command.Action. The HTTP status reflects transport
// problems only; command outcomes are in the response code.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	var action command.Action
	body := io.LimitReader(r.Body, maxActionSize)
	if err := json.NewDecoder(body).Decode(&action); err != nil {
		h.serverError(w, r, fmt.Errorf("%w: decode action: %v", adbridge.ErrInvalidArgument, err))
		return
	}

	resp := h.dispatcher.Dispatch(r.Context(), action)
	if resp.Code == command.CodeOK {
		h.snapshots.Invalidate(snapshotKey)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type foregroundRequest struct {
	Foreground bool `json:"foreground"`
}

// HandleForeground flips host readiness on the main thread, the same way a
// setForeground command does.
func (h *Handler) HandleForeground(w http.ResponseWriter, r *http.Request) {
	var req foregroundRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxActionSize)).Decode(&req); err != nil {
		h.serverError(w, r, fmt.Errorf("%w: decode foreground: %v", adbridge.ErrInvalidArgument, err))
		return
	}

	resp := h.dispatcher.Dispatch(r.Context(), command.Action{
		Method: command.SetForegroundMethod,
		Data:   json.RawMessage(strconv.FormatBool(req.Foreground)),
	})
	if resp.Code != command.CodeOK {
		h.serverError(w, r, fmt.Errorf("set foreground: %v", resp.Data))
		return
	}

	emitter := h.registry.Emitter()
	h.logger.Info("host foreground changed", "foreground", req.Foreground)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"foreground": emitter.Foreground(),
		"pending":    emitter.Pending(),
	})
}
