package bridge

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/arko-chat/adbridge/internal/adbridge"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAd struct {
	id       string
	requests []*Request
	shows    int
	destroys int
}

func (a *fakeAd) ID() string            { return a.id }
func (a *fakeAd) Load(r *Request)       { a.requests = append(a.requests, r) }
func (a *fakeAd) SetVisible(bool)       {}
func (a *fakeAd) SetAutorefresh(bool)   {}
func (a *fakeAd) ForceRefresh()         {}
func (a *fakeAd) Show()                 { a.shows++ }
func (a *fakeAd) Destroy()              { a.destroys++ }

type delivered struct {
	name string
	args string
}

type fakeHost struct {
	tasks        []*Task
	events       []delivered
	interstitial *InterstitialEvents
	banner       *BannerEvents
	updates      *LocationUpdates
	stopped      int
	nilBanner    bool
	onEvent      func(name string)
}

func (h *fakeHost) NewBanner(adUnitID string, w, ht float64, position int, events *BannerEvents) NativeAd {
	if h.nilBanner {
		return nil
	}
	h.banner = events
	return &fakeAd{id: "banner-1"}
}

func (h *fakeHost) NewInterstitial(adUnitID string, events *InterstitialEvents) NativeAd {
	h.interstitial = events
	return &fakeAd{id: "interstitial-1"}
}

func (h *fakeHost) NewRewardedVideo(adUnitID string, events *RewardedEvents) NativeAd {
	return &fakeAd{id: "rewarded-1"}
}

func (h *fakeHost) ScreenWidth() float64           { return 412 }
func (h *fakeHost) RunOnMainThread(task *Task)     { h.tasks = append(h.tasks, task) }
func (h *fakeHost) DeliverEvent(name, args string) {
	h.events = append(h.events, delivered{name, args})
	if h.onEvent != nil {
		h.onEvent(name)
	}
}

func (h *fakeHost) StartLocationUpdates(u *LocationUpdates) error {
	h.updates = u
	return nil
}

func (h *fakeHost) StopLocationUpdates(*LocationUpdates) { h.stopped++ }

func (h *fakeHost) runTasks() {
	for len(h.tasks) > 0 {
		t := h.tasks[0]
		h.tasks = h.tasks[1:]
		t.Run()
	}
}

func newTestRegistry(t *testing.T, host *fakeHost) *adbridge.Registry {
	t.Helper()
	adapter := NewAdapter(host, discardLogger())
	emitter := adbridge.NewEmitter(adapter, discardLogger())
	reg, err := adbridge.NewRegistry(adapter, emitter, discardLogger(),
		adbridge.WithMainThread(adapter),
		adbridge.WithLocationProvider(adapter),
	)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestCallbacksRunOnHostMainThread(t *testing.T) {
	host := &fakeHost{}
	reg := newTestRegistry(t, host)
	b, _ := reg.GetOrCreate("unit")

	b.RequestInterstitialAd("kw", "")
	host.interstitial.OnLoaded("interstitial-1")

	if b.InterstitialIsReady() {
		t.Fatal("state changed before the host ran the task")
	}
	host.runTasks()
	if !b.InterstitialIsReady() {
		t.Fatal("expected ready once the host ran the task")
	}
	if len(host.events) != 1 || host.events[0].name != adbridge.EventInterstitialLoaded || host.events[0].args != `["unit"]` {
		t.Fatalf("unexpected events: %+v", host.events)
	}
}

func TestRequestCarriesLocation(t *testing.T) {
	host := &fakeHost{}
	reg := newTestRegistry(t, host)
	b, _ := reg.GetOrCreate("unit")

	b.EnableLocationSupport(true)
	host.updates.OnLocation(10, 20, 5, 1700000000000)
	host.runTasks()

	if err := b.RequestBannerSize(adbridge.AdSize50Height, adbridge.PositionTopCenter, "", ""); err != nil {
		t.Fatal(err)
	}
	host.runTasks()

	loc := b.LastKnownLocation()
	if loc == nil || loc.Timestamp.UnixMilli() != 1700000000000 {
		t.Fatalf("unexpected location %+v", loc)
	}

	b.EnableLocationSupport(false)
	if host.stopped != 1 {
		t.Fatalf("expected updates to stop, got %d", host.stopped)
	}
}

func TestNilNativeAdReportsFailure(t *testing.T) {
	host := &fakeHost{nilBanner: true}
	reg := newTestRegistry(t, host)
	b, _ := reg.GetOrCreate("unit")

	if err := b.RequestBanner(320, 50, adbridge.PositionBottomCenter, "", ""); err != nil {
		t.Fatal(err)
	}
	if len(host.events) != 1 || host.events[0].name != adbridge.EventAdFailed {
		t.Fatalf("expected a failure event, got %+v", host.events)
	}
}

func TestNewRequest(t *testing.T) {
	r := newRequest(adbridge.AdRequest{Keywords: "k"})
	if r.HasLocation || r.Keywords != "k" {
		t.Fatalf("unexpected request %+v", r)
	}
	r = newRequest(adbridge.AdRequest{Location: &adbridge.Location{Latitude: 1, Longitude: 2, Accuracy: 3}})
	if !r.HasLocation || r.Latitude != 1 || r.Longitude != 2 || r.Accuracy != 3 {
		t.Fatalf("unexpected request %+v", r)
	}
}

func TestRegisterOnce(t *testing.T) {
	t.Cleanup(reset)
	reset()

	if Registered() {
		t.Fatal("expected no host before Register")
	}
	if err := Register(nil); err == nil {
		t.Fatal("expected nil host to be rejected")
	}
	if err := Register(&fakeHost{}); err != nil {
		t.Fatal(err)
	}
	if err := Register(&fakeHost{}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if !Registered() {
		t.Fatal("expected a registered host")
	}
}

func TestHostMayCallBackFromDeliverEvent(t *testing.T) {
	host := &fakeHost{nilBanner: true}
	reg := newTestRegistry(t, host)
	b, _ := reg.GetOrCreate("unit")

	retried := false
	host.onEvent = func(name string) {
		if name != adbridge.EventAdFailed {
			return
		}
		reg.Emitter().SetForeground(false)
		if !retried {
			retried = true
			b.RequestBanner(320, 50, adbridge.PositionBottomCenter, "", "")
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.RequestBanner(320, 50, adbridge.PositionBottomCenter, "", "")
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("DeliverEvent calling back into the bridge deadlocked")
	}

	if len(host.events) != 1 {
		t.Fatalf("expected the retry failure to wait for the host, got %+v", host.events)
	}
	if reg.Emitter().Pending() != 1 {
		t.Fatalf("expected one queued event, got %d", reg.Emitter().Pending())
	}
}

func TestImpressionDeliveredOnHostMainThread(t *testing.T) {
	host := &fakeHost{}
	reg := newTestRegistry(t, host)
	b, _ := reg.GetOrCreate("unit")

	if err := b.RequestBanner(320, 50, adbridge.PositionBottomCenter, "", ""); err != nil {
		t.Fatal(err)
	}
	host.banner.OnLoaded("banner-1", 320, 50)
	host.banner.OnImpressionTracked("banner-1", "{}")

	if len(host.events) != 0 {
		t.Fatalf("DeliverEvent called before the host ran its tasks: %+v", host.events)
	}
	host.runTasks()

	var names []string
	for _, ev := range host.events {
		names = append(names, ev.name)
	}
	want := []string{adbridge.EventAdLoaded, adbridge.EventImpressionTracked}
	if !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}
