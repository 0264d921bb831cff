package adbridge

// SDK callbacks land here. Each one notes the issue epoch on the SDK's
// goroutine and re-dispatches onto the main thread before touching state.
// Impressions skip the main thread only when a background sink can take
// them.

type bannerEvents struct{ b *AdBridge }
type interstitialEvents struct{ b *AdBridge }
type rewardedEvents struct{ b *AdBridge }
type locationEvents struct{ b *AdBridge }

var (
	_ BannerListener       = bannerEvents{}
	_ InterstitialListener = interstitialEvents{}
	_ RewardedListener     = rewardedEvents{}
	_ LocationListener     = locationEvents{}
)

func (e bannerEvents) OnBannerLoaded(id string, width, height float64) {
	b := e.b
	raised := b.raisedAt()
	b.reg.main.Dispatch(func() {
		ok := b.withBanner(id, EventAdLoaded, raised, func(h *handle[BannerAd]) {
			switch {
			case b.bannerVisible:
				h.state = StateShown
			case h.state != StateDismissed:
				h.state = StateReady
			}
		})
		if ok {
			b.emit(EventAdLoaded, false, b.adUnitID, formatFloat(width), formatFloat(height))
		}
	})
}

func (e bannerEvents) OnBannerFailed(id string, reason string) {
	b := e.b
	raised := b.raisedAt()
	b.reg.main.Dispatch(func() {
		ok := b.withBanner(id, EventAdFailed, raised, func(h *handle[BannerAd]) {
			if h.state == StateLoading {
				h.state = StateFailed
			}
		})
		if ok {
			b.logger.Info("banner failed to load", "handle", id, "reason", reason)
			b.emit(EventAdFailed, false, b.adUnitID, reason)
		}
	})
}

func (e bannerEvents) OnBannerClicked(id string) {
	e.b.bannerNotice(id, EventAdClicked)
}

func (e bannerEvents) OnBannerExpanded(id string) {
	e.b.bannerNotice(id, EventAdExpanded)
}

func (e bannerEvents) OnBannerCollapsed(id string) {
	e.b.bannerNotice(id, EventAdCollapsed)
}

func (e bannerEvents) OnImpressionTracked(id string, impressionJSON string) {
	e.b.impression(id, impressionJSON)
}

func (b *AdBridge) bannerNotice(id, event string) {
	raised := b.raisedAt()
	b.reg.main.Dispatch(func() {
		if b.withBanner(id, event, raised, nil) {
			b.emit(event, false, b.adUnitID)
		}
	})
}

func (e interstitialEvents) OnInterstitialLoaded(id string) {
	e.b.fullscreenCallback(&e.b.interstitial, id, EventInterstitialLoaded, readyUnlessShown)
}

func (e interstitialEvents) OnInterstitialFailed(id string, reason string) {
	e.b.fullscreenCallback(&e.b.interstitial, id, EventInterstitialFailed, toState(StateFailed), reason)
}

func (e interstitialEvents) OnInterstitialShown(id string) {
	e.b.fullscreenCallback(&e.b.interstitial, id, EventInterstitialShown, toState(StateShown))
}

func (e interstitialEvents) OnInterstitialClicked(id string) {
	e.b.fullscreenCallback(&e.b.interstitial, id, EventInterstitialClicked, nil)
}

func (e interstitialEvents) OnInterstitialDismissed(id string) {
	e.b.fullscreenCallback(&e.b.interstitial, id, EventInterstitialDismissed, toState(StateDismissed))
}

func (e interstitialEvents) OnInterstitialExpired(id string) {
	e.b.fullscreenCallback(&e.b.interstitial, id, EventInterstitialExpired, toState(StateUnrequested))
}

func (e interstitialEvents) OnImpressionTracked(id string, impressionJSON string) {
	e.b.impression(id, impressionJSON)
}

func (e rewardedEvents) OnRewardedLoaded(id string) {
	e.b.fullscreenCallback(&e.b.rewarded, id, EventRewardedLoaded, readyUnlessShown)
}

func (e rewardedEvents) OnRewardedFailed(id string, reason string) {
	e.b.fullscreenCallback(&e.b.rewarded, id, EventRewardedFailed, toState(StateFailed), reason)
}

func (e rewardedEvents) OnRewardedShown(id string) {
	e.b.fullscreenCallback(&e.b.rewarded, id, EventRewardedShown, toState(StateShown))
}

func (e rewardedEvents) OnRewardedClicked(id string) {
	e.b.fullscreenCallback(&e.b.rewarded, id, EventRewardedClicked, nil)
}

func (e rewardedEvents) OnRewardedFailedToPlay(id string, reason string) {
	e.b.fullscreenCallback(&e.b.rewarded, id, EventRewardedFailedToPlay, toState(StateFailed), reason)
}

func (e rewardedEvents) OnRewardedReceivedReward(id string, label string, amount float64) {
	e.b.fullscreenCallback(&e.b.rewarded, id, EventRewardedReceivedReward, nil, label, formatFloat(amount))
}

func (e rewardedEvents) OnRewardedClosed(id string) {
	e.b.fullscreenCallback(&e.b.rewarded, id, EventRewardedClosed, toState(StateDismissed))
}

func (e rewardedEvents) OnRewardedExpired(id string) {
	e.b.fullscreenCallback(&e.b.rewarded, id, EventRewardedExpired, toState(StateUnrequested))
}

func (e rewardedEvents) OnImpressionTracked(id string, impressionJSON string) {
	e.b.impression(id, impressionJSON)
}

func (e locationEvents) OnLocationChanged(loc Location) {
	b := e.b
	b.reg.main.Dispatch(func() {
		b.mu.Lock()
		if !b.locationEnabled {
			b.mu.Unlock()
			return
		}
		stored := loc
		b.lastLocation = &stored
		b.mu.Unlock()

		if b.reg.prefs != nil {
			if err := b.reg.prefs.SaveLocation(b.adUnitID, loc); err != nil {
				b.logger.Warn("failed to save location", "err", err)
			}
		}
		b.emit(EventLocationChanged, false, b.adUnitID, formatFloat(loc.Latitude), formatFloat(loc.Longitude))
	})
}

type stateFunc func(h *handle[FullscreenAd])

func toState(s AdState) stateFunc {
	return func(h *handle[FullscreenAd]) { h.state = s }
}

func readyUnlessShown(h *handle[FullscreenAd]) {
	if h.state != StateShown {
		h.state = StateReady
	}
}

func (b *AdBridge) fullscreenCallback(
	slot **handle[FullscreenAd],
	id, event string,
	transition stateFunc,
	args ...string,
) {
	raised := b.raisedAt()
	b.reg.main.Dispatch(func() {
		b.mu.Lock()
		h := *slot
		if !accepts(h, id, raised) {
			b.mu.Unlock()
			b.dropStale(id, event)
			return
		}
		if transition != nil {
			transition(h)
		}
		b.mu.Unlock()

		b.emit(event, false, append([]string{b.adUnitID}, args...)...)
	})
}

// withBanner runs fn under the lock when id names the current banner.
func (b *AdBridge) withBanner(id, event string, raised uint64, fn func(h *handle[BannerAd])) bool {
	b.mu.Lock()
	h := b.banner
	if !accepts(h, id, raised) {
		b.mu.Unlock()
		b.dropStale(id, event)
		return false
	}
	if fn != nil {
		fn(h)
	}
	b.mu.Unlock()
	return true
}

func (b *AdBridge) impression(id, impressionJSON string) {
	raised := b.raisedAt()
	track := func() {
		if !b.live(id, raised) {
			b.dropStale(id, EventImpressionTracked)
			return
		}
		b.emit(EventImpressionTracked, true, b.adUnitID, impressionJSON)
	}

	if b.reg.emitter.HasBackgroundSink() {
		track()
		return
	}
	// the foreground sink is only ever called from the main thread
	b.reg.main.Dispatch(track)
}

func (b *AdBridge) live(id string, raised uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return accepts(b.banner, id, raised) ||
		accepts(b.interstitial, id, raised) ||
		accepts(b.rewarded, id, raised)
}

// raisedAt is read on the SDK's goroutine as a callback fires.
func (b *AdBridge) raisedAt() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.epoch
}

func (b *AdBridge) dropStale(id, event string) {
	if b.reg.isRetired(id) {
		b.logger.Debug("ignoring callback for destroyed handle", "handle", id, "event", event)
		return
	}
	b.logger.Debug("ignoring stale callback", "handle", id, "event", event)
}
