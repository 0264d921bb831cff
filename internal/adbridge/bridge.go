package adbridge

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
)

type handle[T any] struct {
	ad    T
	id    string
	state AdState

	// reused marks an ID the SDK handed out before. Callbacks raised before
	// issued belong to the previous owner of the ID.
	reused bool
	issued uint64
}

// notIssued keeps a reused handle deaf until its first Load is stamped.
const notIssued = math.MaxUint64

// accepts reports whether a callback for id, raised at epoch raised, belongs
// to h.
func accepts[T any](h *handle[T], id string, raised uint64) bool {
	if h == nil || h.id != id {
		return false
	}
	return !h.reused || raised >= h.issued
}

// AdBridge fronts one ad unit: at most one banner, one interstitial and one
// rewarded video, plus the unit's location and refresh settings.
//
// Commands are expected on the host main thread. State is additionally
// guarded by mu so accessors and impression callbacks can run elsewhere.
// SDK handles are never called with mu held.
type AdBridge struct {
	adUnitID string
	reg      *Registry
	logger   *slog.Logger

	mu             sync.Mutex
	banner         *handle[BannerAd]
	bannerPosition AdPosition
	bannerVisible  bool
	interstitial   *handle[FullscreenAd]
	rewarded       *handle[FullscreenAd]

	locationEnabled bool
	locationSub     Subscription
	lastLocation    *Location
	autorefresh     bool

	// epoch counts first loads issued to new handles.
	epoch uint64
}

func (b *AdBridge) AdUnitID() string {
	return b.adUnitID
}

// EnableLocationSupport toggles attaching the device location to future
// requests and starts or stops the location subscription.
func (b *AdBridge) EnableLocationSupport(enabled bool) {
	b.mu.Lock()
	if b.locationEnabled == enabled {
		b.mu.Unlock()
		return
	}
	b.locationEnabled = enabled
	sub := b.locationSub
	b.locationSub = nil
	b.mu.Unlock()

	if sub != nil {
		sub.Stop()
	}
	if !enabled {
		b.logger.Debug("location support disabled")
		return
	}

	if b.reg.locations == nil {
		b.logger.Warn("location support enabled without a location provider")
		return
	}
	newSub := b.reg.locations.Subscribe(locationEvents{b})

	b.mu.Lock()
	if !b.locationEnabled {
		// disabled again while subscribing
		b.mu.Unlock()
		if newSub != nil {
			newSub.Stop()
		}
		return
	}
	b.locationSub = newSub
	b.mu.Unlock()
	b.logger.Debug("location support enabled")
}

func (b *AdBridge) LocationEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locationEnabled
}

// LastKnownLocation returns a copy of the last recorded fix, or nil.
func (b *AdBridge) LastKnownLocation() *Location {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastLocation == nil {
		return nil
	}
	loc := *b.lastLocation
	return &loc
}

func (b *AdBridge) requestLocked(keywords, userDataKeywords string) AdRequest {
	req := AdRequest{Keywords: keywords, UserDataKeywords: userDataKeywords}
	if b.locationEnabled && b.lastLocation != nil {
		loc := *b.lastLocation
		req.Location = &loc
	}
	return req
}

// RequestBanner loads a banner of the given geometry at position, replacing
// any banner this unit already has. The outcome arrives as an event.
func (b *AdBridge) RequestBanner(
	width, height float64,
	position AdPosition,
	keywords, userDataKeywords string,
) error {
	if !validDimension(width) || !validDimension(height) {
		return fmt.Errorf("%w: banner size %vx%v", ErrInvalidArgument, width, height)
	}
	if !position.Valid() {
		return fmt.Errorf("%w: banner position %d", ErrInvalidArgument, int(position))
	}

	ad := b.reg.provider.NewBanner(b.adUnitID, width, height, position, bannerEvents{b})
	if ad == nil {
		b.emit(EventAdFailed, false, b.adUnitID, "sdk returned no banner view")
		return nil
	}
	id := ad.ID()
	reclaimed := b.reg.reclaim(id)

	b.mu.Lock()
	old := b.banner
	h := &handle[BannerAd]{
		ad:     ad,
		id:     id,
		state:  StateLoading,
		reused: reclaimed || (old != nil && old.id == id),
		issued: notIssued,
	}
	b.banner = h
	b.bannerPosition = position
	b.bannerVisible = true
	autorefresh := b.autorefresh
	req := b.requestLocked(keywords, userDataKeywords)
	b.mu.Unlock()

	if h.reused {
		b.logger.Warn("sdk reused a handle id, ignoring its earlier callbacks", "handle", id)
	}
	if old != nil {
		if old.id != id {
			b.reg.retire(old.id)
		}
		old.ad.Destroy()
		b.logger.Debug("replaced banner", "old", old.id, "handle", id)
	}

	ad.SetAutorefresh(autorefresh)
	issue(b, h)
	ad.Load(req)
	b.logger.Debug("banner requested",
		"handle", id,
		"width", width,
		"height", height,
		"position", position.String(),
	)
	return nil
}

// issue stamps h with a fresh epoch right before its first Load.
func issue[T any](b *AdBridge, h *handle[T]) {
	b.mu.Lock()
	b.epoch++
	h.issued = b.epoch
	b.mu.Unlock()
}

// RequestBannerSize requests a screen-wide banner of a standard height.
func (b *AdBridge) RequestBannerSize(
	size AdSize,
	position AdPosition,
	keywords, userDataKeywords string,
) error {
	if !size.Valid() {
		return fmt.Errorf("%w: ad size %d", ErrInvalidArgument, int(size))
	}
	return b.RequestBanner(b.reg.provider.ScreenWidth(), size.Height(), position, keywords, userDataKeywords)
}

// CreateBanner is the fixed-geometry form of RequestBanner.
//
// Deprecated: use RequestBanner or RequestBannerSize.
func (b *AdBridge) CreateBanner(bannerType BannerType, position AdPosition) error {
	if !bannerType.Valid() {
		return fmt.Errorf("%w: banner type %d", ErrInvalidArgument, int(bannerType))
	}
	w, h := bannerType.Size()
	return b.RequestBanner(w, h, position, "", "")
}

func (b *AdBridge) DestroyBanner() {
	b.mu.Lock()
	h := b.banner
	b.banner = nil
	b.bannerVisible = false
	b.mu.Unlock()

	if h == nil {
		return
	}
	b.reg.retire(h.id)
	h.ad.Destroy()
	b.logger.Debug("banner destroyed", "handle", h.id)
}

func (b *AdBridge) ShowBanner() {
	b.mu.Lock()
	h := b.banner
	if h == nil {
		b.mu.Unlock()
		return
	}
	b.bannerVisible = true
	if h.state == StateReady || h.state == StateDismissed {
		h.state = StateShown
	}
	b.mu.Unlock()

	h.ad.SetVisible(true)
}

// HideBanner hides the banner, or destroys it when shouldDestroy is set.
func (b *AdBridge) HideBanner(shouldDestroy bool) {
	if shouldDestroy {
		b.DestroyBanner()
		return
	}

	b.mu.Lock()
	h := b.banner
	if h == nil {
		b.mu.Unlock()
		return
	}
	b.bannerVisible = false
	if h.state == StateShown {
		h.state = StateDismissed
	}
	b.mu.Unlock()

	h.ad.SetVisible(false)
}

// SetAutorefreshEnabled applies to the current banner and to banners
// requested later.
func (b *AdBridge) SetAutorefreshEnabled(enabled bool) {
	b.mu.Lock()
	b.autorefresh = enabled
	h := b.banner
	b.mu.Unlock()

	if b.reg.prefs != nil {
		if err := b.reg.prefs.SaveAutorefresh(b.adUnitID, enabled); err != nil {
			b.logger.Warn("failed to save autorefresh", "err", err)
		}
	}
	if h != nil {
		h.ad.SetAutorefresh(enabled)
	}
}

func (b *AdBridge) AutorefreshEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.autorefresh
}

func (b *AdBridge) ForceRefresh() {
	b.mu.Lock()
	h := b.banner
	b.mu.Unlock()

	if h == nil {
		b.logger.Warn("force refresh ignored", "err", ErrNotReady)
		return
	}
	h.ad.ForceRefresh()
}

// RefreshAd reloads the current banner with new targeting.
func (b *AdBridge) RefreshAd(keywords, userDataKeywords string) {
	b.mu.Lock()
	h := b.banner
	var req AdRequest
	if h != nil {
		req = b.requestLocked(keywords, userDataKeywords)
	}
	b.mu.Unlock()

	if h == nil {
		b.logger.Warn("refresh ignored", "err", ErrNotReady)
		return
	}
	h.ad.Load(req)
}

func (b *AdBridge) BannerState() AdState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.banner == nil {
		return StateUnrequested
	}
	return b.banner.state
}

func (b *AdBridge) RequestInterstitialAd(keywords, userDataKeywords string) {
	b.requestFullscreen("interstitial", &b.interstitial, func() FullscreenAd {
		return b.reg.provider.NewInterstitial(b.adUnitID, interstitialEvents{b})
	}, EventInterstitialFailed, keywords, userDataKeywords)
}

// InterstitialIsReady reports whether a load has succeeded and the ad has
// not been shown or destroyed since.
func (b *AdBridge) InterstitialIsReady() bool {
	return b.fullscreenState(&b.interstitial) == StateReady
}

func (b *AdBridge) ShowInterstitialAd() {
	b.showFullscreen("interstitial", &b.interstitial)
}

func (b *AdBridge) DestroyInterstitialAd() {
	b.destroyFullscreen("interstitial", &b.interstitial)
}

func (b *AdBridge) InterstitialState() AdState {
	return b.fullscreenState(&b.interstitial)
}

func (b *AdBridge) RequestRewardedVideo(keywords, userDataKeywords string) {
	b.requestFullscreen("rewarded", &b.rewarded, func() FullscreenAd {
		return b.reg.provider.NewRewardedVideo(b.adUnitID, rewardedEvents{b})
	}, EventRewardedFailed, keywords, userDataKeywords)
}

func (b *AdBridge) HasRewardedVideo() bool {
	return b.fullscreenState(&b.rewarded) == StateReady
}

func (b *AdBridge) ShowRewardedVideo() {
	b.showFullscreen("rewarded", &b.rewarded)
}

func (b *AdBridge) DestroyRewardedVideo() {
	b.destroyFullscreen("rewarded", &b.rewarded)
}

func (b *AdBridge) RewardedState() AdState {
	return b.fullscreenState(&b.rewarded)
}

func (b *AdBridge) requestFullscreen(
	kind string,
	slot **handle[FullscreenAd],
	create func() FullscreenAd,
	failedEvent string,
	keywords, userDataKeywords string,
) {
	b.mu.Lock()
	exists := *slot != nil
	b.mu.Unlock()

	var created FullscreenAd
	if !exists {
		created = create()
		if created == nil {
			b.emit(failedEvent, false, b.adUnitID, "sdk returned no "+kind+" controller")
			return
		}
	}

	var (
		spare FullscreenAd
		fresh bool
	)
	reclaimed := created != nil && b.reg.reclaim(created.ID())
	b.mu.Lock()
	if created != nil {
		if *slot == nil {
			*slot = &handle[FullscreenAd]{ad: created, id: created.ID(), reused: reclaimed, issued: notIssued}
			fresh = true
		} else {
			spare = created
		}
	}
	h := *slot
	if h.state == StateLoading || h.state == StateReady {
		state := h.state
		b.mu.Unlock()
		if spare != nil {
			b.discard(spare, reclaimed)
		}
		b.logger.Debug("request ignored", "kind", kind, "state", state.String())
		return
	}
	h.state = StateLoading
	req := b.requestLocked(keywords, userDataKeywords)
	b.mu.Unlock()

	if spare != nil {
		b.discard(spare, reclaimed)
	}
	if h.reused && fresh {
		b.logger.Warn("sdk reused a handle id, ignoring its earlier callbacks", "kind", kind, "handle", h.id)
	}
	if fresh {
		issue(b, h)
	}
	h.ad.Load(req)
	b.logger.Debug("fullscreen ad requested", "kind", kind, "handle", h.id)
}

// discard destroys a controller that lost the race for the slot. A
// reclaimed ID goes back to the retired set.
func (b *AdBridge) discard(ad FullscreenAd, reclaimed bool) {
	if reclaimed {
		b.reg.retire(ad.ID())
	}
	ad.Destroy()
}

func (b *AdBridge) showFullscreen(kind string, slot **handle[FullscreenAd]) {
	b.mu.Lock()
	h := *slot
	ready := h != nil && h.state == StateReady
	b.mu.Unlock()

	if !ready {
		b.logger.Warn("show ignored", "kind", kind, "err", ErrNotReady)
		return
	}
	h.ad.Show()
}

func (b *AdBridge) destroyFullscreen(kind string, slot **handle[FullscreenAd]) {
	b.mu.Lock()
	h := *slot
	*slot = nil
	b.mu.Unlock()

	if h == nil {
		return
	}
	b.reg.retire(h.id)
	h.ad.Destroy()
	b.logger.Debug("fullscreen ad destroyed", "kind", kind, "handle", h.id)
}

func (b *AdBridge) fullscreenState(slot **handle[FullscreenAd]) AdState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if *slot == nil {
		return StateUnrequested
	}
	return (*slot).state
}

// SendEvent forwards a named event with this unit's ID as first argument.
func (b *AdBridge) SendEvent(eventName string, backgroundOK bool, args ...string) {
	b.emit(eventName, backgroundOK, append([]string{b.adUnitID}, args...)...)
}

func (b *AdBridge) emit(eventName string, backgroundOK bool, args ...string) {
	b.reg.emitter.SendEvent(eventName, args, backgroundOK)
}

func (b *AdBridge) Info() Info {
	b.mu.Lock()
	defer b.mu.Unlock()

	info := Info{
		AdUnitID:        b.adUnitID,
		BannerPosition:  b.bannerPosition,
		BannerVisible:   b.bannerVisible,
		LocationEnabled: b.locationEnabled,
		Autorefresh:     b.autorefresh,
	}
	if b.banner != nil {
		info.Banner = b.banner.state
	}
	if b.interstitial != nil {
		info.Interstitial = b.interstitial.state
	}
	if b.rewarded != nil {
		info.Rewarded = b.rewarded.state
	}
	if b.lastLocation != nil {
		loc := *b.lastLocation
		info.LastKnownLocation = &loc
	}
	return info
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
