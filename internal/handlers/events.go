package handlers

import (
	"net/http"

	"github.com/arko-chat/adbridge/internal/middleware"
	"github.com/arko-chat/adbridge/internal/ws"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleEvents streams host events over a WebSocket until the peer leaves.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "host", hostID, "err", err)
		return
	}

	client := ws.NewClient(conn, hostID)
	h.hub.Register(ws.EventsRoom, client)
	go client.WritePump()

	client.ReadPump(nil)
	h.hub.Unregister(ws.EventsRoom, client)
}
