// Package mainloop provides a single goroutine that plays the host main
// thread: every queued func runs on it, one at a time, in FIFO order.
package mainloop

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
)

var (
	ErrStopped = errors.New("mainloop: loop stopped")
	ErrRunning = errors.New("mainloop: loop already running")
)

type Loop struct {
	logger *slog.Logger

	mu      sync.Mutex
	queue   []func()
	started bool

	wake    chan struct{}
	stopped chan struct{}
}

func New(logger *slog.Logger) *Loop {
	return &Loop{
		logger:  logger,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Dispatch enqueues fn and returns immediately. Funcs dispatched after the
// loop stopped are discarded.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-l.stopped:
		l.logger.Debug("main loop stopped, dropping func")
		return
	default:
	}

	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Call runs fn on the loop and waits for it to finish. It must not be
// called from a func already running on the loop.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Dispatch(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len reports how many funcs are waiting.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Run processes queued funcs until ctx is cancelled. Funcs still queued at
// that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return ErrRunning
	}
	l.started = true
	l.mu.Unlock()

	defer func() {
		close(l.stopped)
		l.mu.Lock()
		dropped := len(l.queue)
		l.queue = nil
		l.mu.Unlock()
		l.logger.Debug("main loop stopped", "dropped", dropped)
	}()

	for {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			l.run(fn)
			if ctx.Err() != nil {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("main loop func panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
