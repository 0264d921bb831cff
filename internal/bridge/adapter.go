package bridge

import (
	"log/slog"

	"github.com/arko-chat/adbridge/internal/adbridge"
)

// Adapter presents a HostBridge as the ad provider, location provider,
// main thread and event sink the bridge core expects.
type Adapter struct {
	host   HostBridge
	logger *slog.Logger
}

var (
	_ adbridge.AdProvider       = (*Adapter)(nil)
	_ adbridge.LocationProvider = (*Adapter)(nil)
	_ adbridge.MainThread       = (*Adapter)(nil)
	_ adbridge.Sink             = (*Adapter)(nil)
)

func NewAdapter(host HostBridge, logger *slog.Logger) *Adapter {
	return &Adapter{host: host, logger: logger}
}

func (a *Adapter) NewBanner(
	adUnitID string,
	width, height float64,
	position adbridge.AdPosition,
	listener adbridge.BannerListener,
) adbridge.BannerAd {
	ad := a.host.NewBanner(adUnitID, width, height, int(position), &BannerEvents{l: listener})
	if ad == nil {
		return nil
	}
	return nativeAd{ad}
}

func (a *Adapter) NewInterstitial(adUnitID string, listener adbridge.InterstitialListener) adbridge.FullscreenAd {
	ad := a.host.NewInterstitial(adUnitID, &InterstitialEvents{l: listener})
	if ad == nil {
		return nil
	}
	return nativeAd{ad}
}

func (a *Adapter) NewRewardedVideo(adUnitID string, listener adbridge.RewardedListener) adbridge.FullscreenAd {
	ad := a.host.NewRewardedVideo(adUnitID, &RewardedEvents{l: listener})
	if ad == nil {
		return nil
	}
	return nativeAd{ad}
}

func (a *Adapter) ScreenWidth() float64 {
	return a.host.ScreenWidth()
}

func (a *Adapter) Dispatch(fn func()) {
	a.host.RunOnMainThread(&Task{fn: fn})
}

func (a *Adapter) Deliver(eventName string, argsJSON string) {
	a.host.DeliverEvent(eventName, argsJSON)
}

func (a *Adapter) Subscribe(listener adbridge.LocationListener) adbridge.Subscription {
	updates := &LocationUpdates{l: listener}
	if err := a.host.StartLocationUpdates(updates); err != nil {
		a.logger.Warn("failed to start location updates", "err", err)
		return nil
	}
	return locationSubscription{host: a.host, updates: updates}
}

type locationSubscription struct {
	host    HostBridge
	updates *LocationUpdates
}

func (s locationSubscription) Stop() {
	s.host.StopLocationUpdates(s.updates)
}

type nativeAd struct {
	ad NativeAd
}

func (n nativeAd) ID() string                  { return n.ad.ID() }
func (n nativeAd) Load(req adbridge.AdRequest) { n.ad.Load(newRequest(req)) }
func (n nativeAd) SetVisible(visible bool)     { n.ad.SetVisible(visible) }
func (n nativeAd) SetAutorefresh(enabled bool) { n.ad.SetAutorefresh(enabled) }
func (n nativeAd) ForceRefresh()               { n.ad.ForceRefresh() }
func (n nativeAd) Show()                       { n.ad.Show() }
func (n nativeAd) Destroy()                    { n.ad.Destroy() }

// BackgroundSink adapts a BackgroundCallback.
func BackgroundSink(cb BackgroundCallback) adbridge.BackgroundSink {
	return adbridge.BackgroundSinkFunc(cb.OnBackgroundEvent)
}
