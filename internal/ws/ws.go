// Package ws fans host events out to connected WebSocket clients.
package ws

import "time"

const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 4096
	SendBuffer     = 256
)
