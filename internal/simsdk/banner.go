package simsdk

import (
	"sync"

	"github.com/arko-chat/adbridge/internal/adbridge"
)

type banner struct {
	p        *Provider
	id       string
	adUnitID string
	width    float64
	height   float64
	listener adbridge.BannerListener

	mu          sync.Mutex
	visible     bool
	autorefresh bool
	destroyed   bool
	loads       int
}

func (b *banner) ID() string { return b.id }

func (b *banner) Load(req adbridge.AdRequest) {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.loads++
	b.visible = true
	b.mu.Unlock()

	b.p.logger.Debug("simulated banner load",
		"handle", b.id,
		"keywords", req.Keywords,
		"has_location", req.Location != nil,
	)

	reason, fail := b.p.takeFailure(b.adUnitID)
	b.p.later(1, func() {
		if fail {
			b.listener.OnBannerFailed(b.id, reason)
			return
		}
		b.listener.OnBannerLoaded(b.id, b.width, b.height)
		b.listener.OnImpressionTracked(b.id, impressionJSON(b.adUnitID, b.id))
	})
}

func (b *banner) SetVisible(visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = visible
}

func (b *banner) SetAutorefresh(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autorefresh = enabled
}

func (b *banner) ForceRefresh() {
	b.Load(adbridge.AdRequest{})
}

func (b *banner) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyed = true
	b.visible = false
}
