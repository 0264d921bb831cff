package simsdk

import (
	"sync"

	"github.com/arko-chat/adbridge/internal/adbridge"
)

type fullscreenEvents struct {
	loaded    func(id string)
	failed    func(id, reason string)
	shown     func(id string)
	dismissed func(id string)
	expired   func(id string)
	impressed func(id, impressionJSON string)
	rewarded  func(id string)
}

type fullscreen struct {
	p        *Provider
	id       string
	adUnitID string
	events   fullscreenEvents

	mu        sync.Mutex
	loaded    bool
	loadSeq   int
	destroyed bool
}

func (f *fullscreen) ID() string { return f.id }

func (f *fullscreen) Load(adbridge.AdRequest) {
	f.mu.Lock()
	if f.destroyed {
		f.mu.Unlock()
		return
	}
	f.loadSeq++
	seq := f.loadSeq
	f.mu.Unlock()

	reason, fail := f.p.takeFailure(f.adUnitID)
	f.p.later(1, func() {
		if fail {
			f.events.failed(f.id, reason)
			return
		}
		f.mu.Lock()
		f.loaded = true
		f.mu.Unlock()
		f.events.loaded(f.id)

		if f.p.expiry > 0 {
			f.scheduleExpiry(seq)
		}
	})
}

func (f *fullscreen) scheduleExpiry(seq int) {
	f.p.laterBy(f.p.expiry, func() {
		f.mu.Lock()
		stale := !f.loaded || f.loadSeq != seq
		if !stale {
			f.loaded = false
		}
		f.mu.Unlock()
		if !stale {
			f.events.expired(f.id)
		}
	})
}

func (f *fullscreen) Show() {
	f.mu.Lock()
	if !f.loaded || f.destroyed {
		f.mu.Unlock()
		f.p.logger.Debug("simulated show without a loaded ad", "handle", f.id)
		return
	}
	f.loaded = false
	f.loadSeq++
	f.mu.Unlock()

	f.p.later(1, func() {
		f.events.shown(f.id)
		f.events.impressed(f.id, impressionJSON(f.adUnitID, f.id))
		if f.events.rewarded != nil {
			f.events.rewarded(f.id)
		}
		f.p.later(1, func() {
			f.events.dismissed(f.id)
		})
	})
}

func (f *fullscreen) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = true
	f.loaded = false
}
