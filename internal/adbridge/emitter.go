package adbridge

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/tidwall/btree"
)

// Sink is the host's event entry point. Deliver is called without the
// emitter's lock held and may call back into the Emitter or the bridge;
// events sent from inside Deliver are delivered after it returns.
type Sink interface {
	Deliver(eventName string, argsJSON string)
}

// BackgroundSink receives events that are allowed to arrive while the host is
// paused. It may be invoked from any goroutine.
type BackgroundSink interface {
	DeliverBackground(eventName string, argsJSON string)
}

type SinkFunc func(eventName string, argsJSON string)

func (f SinkFunc) Deliver(eventName string, argsJSON string) { f(eventName, argsJSON) }

type BackgroundSinkFunc func(eventName string, argsJSON string)

func (f BackgroundSinkFunc) DeliverBackground(eventName string, argsJSON string) {
	f(eventName, argsJSON)
}

// Policy decides what happens to a foreground-only event while the host is
// not ready to receive it.
type Policy int

const (
	QueuePolicy Policy = iota
	DropPolicy
)

const DefaultQueueLimit = 256

type pendingEvent struct {
	seq        uint64
	name       string
	args       string
	background bool
}

func bySeq(a, b pendingEvent) bool {
	return a.seq < b.seq
}

type bgSlot struct {
	sink BackgroundSink
}

type Emitter struct {
	sink   Sink
	bg     atomic.Pointer[bgSlot]
	logger *slog.Logger

	mu         sync.Mutex
	foreground bool
	policy     Policy
	limit      int
	seq        uint64
	pending    *btree.BTreeG[pendingEvent]
	outbox     []pendingEvent
	draining   bool
	dropped    uint64
}

type EmitterOption func(*Emitter)

func WithPolicy(p Policy) EmitterOption {
	return func(e *Emitter) { e.policy = p }
}

// WithQueueLimit bounds the pending queue. Once full, the oldest event is
// dropped to make room.
func WithQueueLimit(n int) EmitterOption {
	return func(e *Emitter) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithForeground sets the initial readiness. Hosts start ready unless told
// otherwise.
func WithForeground(ready bool) EmitterOption {
	return func(e *Emitter) { e.foreground = ready }
}

func NewEmitter(sink Sink, logger *slog.Logger, opts ...EmitterOption) *Emitter {
	e := &Emitter{
		sink:       sink,
		logger:     logger,
		foreground: true,
		policy:     QueuePolicy,
		limit:      DefaultQueueLimit,
		pending:    btree.NewBTreeG(bySeq),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetBackgroundSink installs the background callback. It can be set once per
// emitter; later calls return ErrAlreadySet.
func (e *Emitter) SetBackgroundSink(s BackgroundSink) error {
	if s == nil {
		return ErrInvalidArgument
	}
	if !e.bg.CompareAndSwap(nil, &bgSlot{sink: s}) {
		return ErrAlreadySet
	}
	return nil
}

func (e *Emitter) HasBackgroundSink() bool {
	return e.bg.Load() != nil
}

// SendEvent encodes args and forwards the event to the host.
//
// Background-OK events go out immediately through the background sink when
// one is installed, and otherwise to the foreground sink even while the host
// is paused. Other events go to the foreground sink while the host is ready,
// and are otherwise queued or dropped according to the policy. Foreground
// deliveries keep the order in which SendEvent was called.
func (e *Emitter) SendEvent(name string, args []string, backgroundOK bool) {
	payload := EncodeArgs(args...)

	if backgroundOK {
		if slot := e.bg.Load(); slot != nil {
			e.safeCall(name, func() { slot.sink.DeliverBackground(name, payload) })
			return
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.seq++
	ev := pendingEvent{seq: e.seq, name: name, args: payload, background: backgroundOK}
	if !e.foreground && !backgroundOK {
		e.holdLocked(ev)
		return
	}
	e.outbox = append(e.outbox, ev)
	e.drainLocked()
}

// SetForeground records whether the host can take foreground events. Going
// ready flushes the queue in arrival order before any new event is delivered.
func (e *Emitter) SetForeground(ready bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.foreground = ready
	if !ready {
		return
	}

	flushed := 0
	for {
		ev, ok := e.pending.PopMin()
		if !ok {
			break
		}
		e.outbox = append(e.outbox, ev)
		flushed++
	}
	if flushed > 0 {
		e.logger.Debug("flushing queued events", "count", flushed)
	}
	e.drainLocked()
}

func (e *Emitter) Foreground() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.foreground
}

func (e *Emitter) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending.Len()
}

func (e *Emitter) Dropped() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}

// holdLocked applies the policy to an event the host cannot take yet.
func (e *Emitter) holdLocked(ev pendingEvent) {
	if e.policy == DropPolicy {
		e.dropped++
		e.logger.Debug("host not ready, dropping event", "event", ev.name)
		return
	}

	if e.pending.Len() >= e.limit {
		if old, ok := e.pending.PopMin(); ok {
			e.dropped++
			e.logger.Warn("event queue full, dropping oldest", "event", old.name, "limit", e.limit)
		}
	}
	e.pending.Set(ev)
}

// drainLocked delivers the outbox in order with mu released around each
// sink call. Only one caller drains at a time; events added meanwhile, by
// the sink itself or another goroutine, are picked up by that drainer. If
// the host stops being ready mid-drain, the remaining foreground events go
// back to the pending queue ahead of anything queued later.
func (e *Emitter) drainLocked() {
	if e.draining {
		return
	}
	e.draining = true
	defer func() { e.draining = false }()

	for len(e.outbox) > 0 {
		ev := e.outbox[0]
		e.outbox = e.outbox[1:]
		if !e.foreground && !ev.background {
			e.holdLocked(ev)
			continue
		}

		e.mu.Unlock()
		e.deliver(ev.name, ev.args)
		e.mu.Lock()
	}
	e.outbox = nil
}

func (e *Emitter) deliver(name, payload string) {
	if e.sink == nil {
		e.logger.Warn("no host sink, event lost", "event", name)
		return
	}
	e.safeCall(name, func() { e.sink.Deliver(name, payload) })
}

// safeCall keeps a panicking host callback from taking the bridge down.
func (e *Emitter) safeCall(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("host event callback panicked",
				"event", name,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
