package ws

import (
	"log/slog"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

type room = *xsync.Map[*Client, struct{}]

// Hub tracks clients by room. Broadcasts never block: a client whose send
// buffer is full misses the message.
type Hub struct {
	rooms  *xsync.Map[string, room]
	logger *slog.Logger

	// sending guards Send channels against being closed mid-broadcast
	sending sync.RWMutex
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  xsync.NewMap[string, room](),
		logger: logger,
	}
}

func (h *Hub) Register(roomID string, c *Client) {
	r, _ := h.rooms.LoadOrCompute(roomID, func() (room, bool) {
		return xsync.NewMap[*Client, struct{}](), false
	})
	r.Store(c, struct{}{})
	h.logger.Debug("ws register",
		"room", roomID,
		"host", c.HostID,
		"clients", r.Size(),
	)
}

func (h *Hub) Unregister(roomID string, c *Client) {
	r, ok := h.rooms.Load(roomID)
	if !ok {
		return
	}
	if _, loaded := r.LoadAndDelete(c); !loaded {
		return
	}
	h.sending.Lock()
	c.closeSend()
	h.sending.Unlock()
	h.logger.Debug("ws unregister", "room", roomID, "host", c.HostID)
}

func (h *Hub) Broadcast(roomID string, data []byte) int {
	if data == nil {
		return 0
	}
	r, ok := h.rooms.Load(roomID)
	if !ok {
		return 0
	}

	h.sending.RLock()
	defer h.sending.RUnlock()

	sent := 0
	r.Range(func(c *Client, _ struct{}) bool {
		select {
		case c.Send <- data:
			sent++
		default:
			h.logger.Warn("ws dropped message", "room", roomID, "host", c.HostID)
		}
		return true
	})
	return sent
}

func (h *Hub) Count(roomID string) int {
	r, ok := h.rooms.Load(roomID)
	if !ok {
		return 0
	}
	return r.Size()
}
