package adbridge

// The interfaces in this file are the boundary to the native ad SDK and the
// platform location service. They are satisfied by native code through
// gomobile (see cmd/mobile) or by the simulator in internal/simsdk.
//
// Rules for gomobile compatibility:
//   - methods only use primitives, strings or other bound interfaces
//   - no variadic parameters
//   - structs cross the boundary as JSON strings, never as values

// AdProvider creates SDK handles. A handle reports back through the listener
// it was created with, always passing its own ID so late callbacks for a
// replaced handle can be recognised.
type AdProvider interface {
	NewBanner(adUnitID string, width, height float64, position AdPosition, listener BannerListener) BannerAd
	NewInterstitial(adUnitID string, listener InterstitialListener) FullscreenAd
	NewRewardedVideo(adUnitID string, listener RewardedListener) FullscreenAd

	// ScreenWidth is the usable screen width in points/dp, used for
	// AdSize banners.
	ScreenWidth() float64
}

// AdRequest carries targeting for a load. Location is nil unless location
// support is enabled and a fix is known.
type AdRequest struct {
	Keywords         string
	UserDataKeywords string
	Location         *Location
}

type BannerAd interface {
	ID() string
	Load(req AdRequest)
	SetVisible(visible bool)
	SetAutorefresh(enabled bool)
	ForceRefresh()
	Destroy()
}

// FullscreenAd is an interstitial or rewarded video handle.
type FullscreenAd interface {
	ID() string
	Load(req AdRequest)
	Show()
	Destroy()
}

type ImpressionListener interface {
	// OnImpressionTracked may fire on any thread, even while the host is
	// paused. impressionJSON is forwarded to the host untouched.
	OnImpressionTracked(handleID string, impressionJSON string)
}

type BannerListener interface {
	ImpressionListener
	OnBannerLoaded(handleID string, width, height float64)
	OnBannerFailed(handleID string, reason string)
	OnBannerClicked(handleID string)
	OnBannerExpanded(handleID string)
	OnBannerCollapsed(handleID string)
}

type InterstitialListener interface {
	ImpressionListener
	OnInterstitialLoaded(handleID string)
	OnInterstitialFailed(handleID string, reason string)
	OnInterstitialShown(handleID string)
	OnInterstitialClicked(handleID string)
	OnInterstitialDismissed(handleID string)
	OnInterstitialExpired(handleID string)
}

type RewardedListener interface {
	ImpressionListener
	OnRewardedLoaded(handleID string)
	OnRewardedFailed(handleID string, reason string)
	OnRewardedShown(handleID string)
	OnRewardedClicked(handleID string)
	OnRewardedFailedToPlay(handleID string, reason string)
	OnRewardedReceivedReward(handleID string, label string, amount float64)
	OnRewardedClosed(handleID string)
	OnRewardedExpired(handleID string)
}

type LocationListener interface {
	OnLocationChanged(loc Location)
}

type Subscription interface {
	Stop()
}

// LocationProvider starts platform location updates. Subscribe may prompt
// for permission; updates only arrive once it is granted.
type LocationProvider interface {
	Subscribe(listener LocationListener) Subscription
}

// MainThread runs fn on the host UI thread. Dispatch must not block waiting
// for fn and must preserve submission order.
type MainThread interface {
	Dispatch(fn func())
}

// DispatchFunc adapts a plain function to MainThread.
type DispatchFunc func(fn func())

func (f DispatchFunc) Dispatch(fn func()) { f(fn) }

// Inline runs dispatched funcs on the caller's goroutine. Only correct when
// every SDK callback is already delivered on the main thread.
var Inline MainThread = DispatchFunc(func(fn func()) { fn() })
