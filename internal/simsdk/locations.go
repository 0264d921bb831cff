package simsdk

import (
	"log/slog"
	"time"

	"github.com/arko-chat/adbridge/internal/adbridge"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// Locations is a LocationProvider whose fixes are published by hand.
type Locations struct {
	logger      *slog.Logger
	subscribers *xsync.Map[string, adbridge.LocationListener]
}

var _ adbridge.LocationProvider = (*Locations)(nil)

func NewLocations(logger *slog.Logger) *Locations {
	return &Locations{
		logger:      logger,
		subscribers: xsync.NewMap[string, adbridge.LocationListener](),
	}
}

func (l *Locations) Subscribe(listener adbridge.LocationListener) adbridge.Subscription {
	id := uuid.NewString()
	l.subscribers.Store(id, listener)
	l.logger.Debug("location subscriber added", "subscription", id)
	return &subscription{id: id, l: l}
}

// Publish sends loc to every subscriber. A zero Timestamp is set to now.
func (l *Locations) Publish(loc adbridge.Location) int {
	if loc.Timestamp.IsZero() {
		loc.Timestamp = time.Now()
	}
	n := 0
	l.subscribers.Range(func(_ string, listener adbridge.LocationListener) bool {
		listener.OnLocationChanged(loc)
		n++
		return true
	})
	return n
}

func (l *Locations) Subscribers() int {
	return l.subscribers.Size()
}

type subscription struct {
	id string
	l  *Locations
}

func (s *subscription) Stop() {
	s.l.subscribers.Delete(s.id)
}
