package handlers

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"
	"slices"
	"strings"

	"github.com/arko-chat/adbridge/components"
	"github.com/arko-chat/adbridge/internal/adbridge"
	"github.com/arko-chat/adbridge/internal/middleware"
	"github.com/arko-chat/adbridge/internal/ws"
	"github.com/skip2/go-qrcode"
)

const snapshotKey = "units"

func (h *Handler) snapshot() ([]adbridge.Info, error) {
	return h.snapshots.Get(snapshotKey, func() ([]adbridge.Info, error) {
		units := h.registry.Snapshot()
		slices.SortFunc(units, func(a, b adbridge.Info) int {
			return strings.Compare(a.AdUnitID, b.AdUnitID)
		})
		return units, nil
	})
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	units, err := h.snapshot()
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	emitter := h.registry.Emitter()
	data := components.StatusData{
		HostID:     middleware.GetHostID(r.Context()),
		BaseURL:    h.baseURL,
		Foreground: emitter.Foreground(),
		Pending:    emitter.Pending(),
		Dropped:    emitter.Dropped(),
		Listeners:  h.hub.Count(ws.EventsRoom),
		Units:      units,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.StatusPage(data).Render(r.Context(), w); err != nil {
		h.serverError(w, r, err)
	}
}

func (h *Handler) HandleUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.snapshot()
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, units)
}

// HandleQR serves the devhost URL as a QR code so a device on the same
// network can connect.
func (h *Handler) HandleQR(w http.ResponseWriter, r *http.Request) {
	qr, err := qrcode.New(h.baseURL, qrcode.High)
	if err != nil {
		h.serverError(w, r, fmt.Errorf("generate QR code: %w", err))
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		h.serverError(w, r, fmt.Errorf("encode QR PNG: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}
