package bridge

// HostBridge is implemented by the native side (Swift/Kotlin) and wraps the
// platform ad SDK, the location service and the engine's event entry point.
//
// Rules for gomobile compatibility:
//   - methods may only use primitive types, strings, []byte, or other
//     gomobile-bound types as parameters and return values
//   - no variadic parameters
//   - errors are returned as a second return value
type HostBridge interface {
	// NewBanner creates a banner view. Returning nil reports that the SDK
	// could not create one.
	NewBanner(adUnitID string, width float64, height float64, position int, events *BannerEvents) NativeAd

	NewInterstitial(adUnitID string, events *InterstitialEvents) NativeAd

	NewRewardedVideo(adUnitID string, events *RewardedEvents) NativeAd

	// ScreenWidth is used for banners that span the screen, in points/dp.
	ScreenWidth() float64

	// RunOnMainThread must eventually call task.Run on the engine's main
	// thread. It may be called from any thread.
	RunOnMainThread(task *Task)

	// DeliverEvent hands an event to the engine. It is only called on the
	// main thread and may call back into the bridge; events raised by those
	// calls are delivered after it returns.
	DeliverEvent(eventName string, argsJSON string)

	// StartLocationUpdates begins reporting fixes to updates until
	// StopLocationUpdates is called with the same value.
	StartLocationUpdates(updates *LocationUpdates) error
	StopLocationUpdates(updates *LocationUpdates)
}

// NativeAd is one SDK ad object. Fullscreen ads ignore the banner-only
// methods.
type NativeAd interface {
	ID() string
	Load(request *Request)
	SetVisible(visible bool)
	SetAutorefresh(enabled bool)
	ForceRefresh()
	Show()
	Destroy()
}

// BackgroundCallback receives events that may arrive while the engine is
// paused, on any thread.
type BackgroundCallback interface {
	OnBackgroundEvent(eventName string, argsJSON string)
}

// Task is a unit of work queued by RunOnMainThread.
type Task struct {
	fn func()
}

func (t *Task) Run() {
	if t != nil && t.fn != nil {
		t.fn()
	}
}
