package bridge

import (
	"time"

	"github.com/arko-chat/adbridge/internal/adbridge"
)

// BannerEvents is handed to the native side with every banner. The native
// SDK delegate forwards its callbacks here, from any thread.
type BannerEvents struct {
	l adbridge.BannerListener
}

func (e *BannerEvents) OnLoaded(id string, width float64, height float64) {
	e.l.OnBannerLoaded(id, width, height)
}
func (e *BannerEvents) OnFailed(id string, reason string) { e.l.OnBannerFailed(id, reason) }
func (e *BannerEvents) OnClicked(id string)               { e.l.OnBannerClicked(id) }
func (e *BannerEvents) OnExpanded(id string)              { e.l.OnBannerExpanded(id) }
func (e *BannerEvents) OnCollapsed(id string)             { e.l.OnBannerCollapsed(id) }
func (e *BannerEvents) OnImpressionTracked(id string, impressionJSON string) {
	e.l.OnImpressionTracked(id, impressionJSON)
}

type InterstitialEvents struct {
	l adbridge.InterstitialListener
}

func (e *InterstitialEvents) OnLoaded(id string)                { e.l.OnInterstitialLoaded(id) }
func (e *InterstitialEvents) OnFailed(id string, reason string) { e.l.OnInterstitialFailed(id, reason) }
func (e *InterstitialEvents) OnShown(id string)                 { e.l.OnInterstitialShown(id) }
func (e *InterstitialEvents) OnClicked(id string)               { e.l.OnInterstitialClicked(id) }
func (e *InterstitialEvents) OnDismissed(id string)             { e.l.OnInterstitialDismissed(id) }
func (e *InterstitialEvents) OnExpired(id string)               { e.l.OnInterstitialExpired(id) }
func (e *InterstitialEvents) OnImpressionTracked(id string, impressionJSON string) {
	e.l.OnImpressionTracked(id, impressionJSON)
}

type RewardedEvents struct {
	l adbridge.RewardedListener
}

func (e *RewardedEvents) OnLoaded(id string)                { e.l.OnRewardedLoaded(id) }
func (e *RewardedEvents) OnFailed(id string, reason string) { e.l.OnRewardedFailed(id, reason) }
func (e *RewardedEvents) OnShown(id string)                 { e.l.OnRewardedShown(id) }
func (e *RewardedEvents) OnClicked(id string)               { e.l.OnRewardedClicked(id) }
func (e *RewardedEvents) OnFailedToPlay(id string, reason string) {
	e.l.OnRewardedFailedToPlay(id, reason)
}
func (e *RewardedEvents) OnReceivedReward(id string, label string, amount float64) {
	e.l.OnRewardedReceivedReward(id, label, amount)
}
func (e *RewardedEvents) OnClosed(id string)  { e.l.OnRewardedClosed(id) }
func (e *RewardedEvents) OnExpired(id string) { e.l.OnRewardedExpired(id) }
func (e *RewardedEvents) OnImpressionTracked(id string, impressionJSON string) {
	e.l.OnImpressionTracked(id, impressionJSON)
}

// LocationUpdates receives fixes from the platform location service.
type LocationUpdates struct {
	l adbridge.LocationListener
}

// OnLocation reports a fix. unixMillis of zero means now.
func (u *LocationUpdates) OnLocation(latitude float64, longitude float64, accuracy float64, unixMillis int64) {
	ts := time.Now()
	if unixMillis > 0 {
		ts = time.UnixMilli(unixMillis)
	}
	u.l.OnLocationChanged(adbridge.Location{
		Latitude:  latitude,
		Longitude: longitude,
		Accuracy:  accuracy,
		Timestamp: ts,
	})
}
