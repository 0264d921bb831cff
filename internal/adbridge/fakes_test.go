package adbridge

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeBanner struct {
	id          string
	width       float64
	height      float64
	position    AdPosition
	listener    BannerListener
	loads       []AdRequest
	visible     []bool
	autorefresh []bool
	refreshes   int
	destroyed   int
}

func (f *fakeBanner) ID() string                  { return f.id }
func (f *fakeBanner) Load(req AdRequest)          { f.loads = append(f.loads, req) }
func (f *fakeBanner) SetVisible(v bool)           { f.visible = append(f.visible, v) }
func (f *fakeBanner) SetAutorefresh(enabled bool) { f.autorefresh = append(f.autorefresh, enabled) }
func (f *fakeBanner) ForceRefresh()               { f.refreshes++ }
func (f *fakeBanner) Destroy()                    { f.destroyed++ }

type fakeFullscreen struct {
	id           string
	interstitial InterstitialListener
	rewarded     RewardedListener
	loads        []AdRequest
	shows        int
	destroyed    int
}

func (f *fakeFullscreen) ID() string         { return f.id }
func (f *fakeFullscreen) Load(req AdRequest) { f.loads = append(f.loads, req) }
func (f *fakeFullscreen) Show()              { f.shows++ }
func (f *fakeFullscreen) Destroy()           { f.destroyed++ }

type fakeProvider struct {
	mu            sync.Mutex
	next          int
	fixedID       string
	banners       []*fakeBanner
	interstitials []*fakeFullscreen
	rewarded      []*fakeFullscreen
}

// nextID hands out fixedID when set, like SDKs that key ads by unit.
func (p *fakeProvider) nextID(kind string) string {
	if p.fixedID != "" {
		return p.fixedID
	}
	p.next++
	return fmt.Sprintf("%s-%d", kind, p.next)
}

func (p *fakeProvider) NewBanner(adUnitID string, width, height float64, position AdPosition, l BannerListener) BannerAd {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := &fakeBanner{id: p.nextID("banner"), width: width, height: height, position: position, listener: l}
	p.banners = append(p.banners, b)
	return b
}

func (p *fakeProvider) NewInterstitial(adUnitID string, l InterstitialListener) FullscreenAd {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := &fakeFullscreen{id: p.nextID("interstitial"), interstitial: l}
	p.interstitials = append(p.interstitials, f)
	return f
}

func (p *fakeProvider) NewRewardedVideo(adUnitID string, l RewardedListener) FullscreenAd {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := &fakeFullscreen{id: p.nextID("rewarded"), rewarded: l}
	p.rewarded = append(p.rewarded, f)
	return f
}

func (p *fakeProvider) ScreenWidth() float64 { return 390 }

func (p *fakeProvider) lastBanner(t *testing.T) *fakeBanner {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.banners) == 0 {
		t.Fatal("no banner was created")
	}
	return p.banners[len(p.banners)-1]
}

func (p *fakeProvider) lastInterstitial(t *testing.T) *fakeFullscreen {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.interstitials) == 0 {
		t.Fatal("no interstitial was created")
	}
	return p.interstitials[len(p.interstitials)-1]
}

func (p *fakeProvider) lastRewarded(t *testing.T) *fakeFullscreen {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.rewarded) == 0 {
		t.Fatal("no rewarded video was created")
	}
	return p.rewarded[len(p.rewarded)-1]
}

type fakeSubscription struct {
	stopped int
}

func (s *fakeSubscription) Stop() { s.stopped++ }

type fakeLocations struct {
	listeners []LocationListener
	subs      []*fakeSubscription
}

func (l *fakeLocations) Subscribe(listener LocationListener) Subscription {
	l.listeners = append(l.listeners, listener)
	sub := &fakeSubscription{}
	l.subs = append(l.subs, sub)
	return sub
}

func (l *fakeLocations) publish(loc Location) {
	for _, listener := range l.listeners {
		listener.OnLocationChanged(loc)
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Deliver(name, argsJSON string) {
	args, err := DecodeArgs(argsJSON, 0)
	if err != nil {
		panic(err)
	}
	r.mu.Lock()
	r.events = append(r.events, Event{Name: name, Args: args})
	r.mu.Unlock()
}

func (r *recorder) DeliverBackground(name, argsJSON string) {
	r.Deliver(name, argsJSON)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Name
	}
	return names
}

func (r *recorder) last(t *testing.T) Event {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		t.Fatal("no events delivered")
	}
	return r.events[len(r.events)-1]
}

// queuedThread holds dispatched funcs until drain is called, standing in for
// a main loop that has not run yet.
type queuedThread struct {
	mu    sync.Mutex
	queue []func()
}

func (q *queuedThread) Dispatch(fn func()) {
	q.mu.Lock()
	q.queue = append(q.queue, fn)
	q.mu.Unlock()
}

func (q *queuedThread) drain() {
	for {
		q.mu.Lock()
		if len(q.queue) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()
		fn()
	}
}

type memPrefs struct {
	mu    sync.Mutex
	prefs map[string]Preferences
}

func newMemPrefs() *memPrefs {
	return &memPrefs{prefs: make(map[string]Preferences)}
}

func (m *memPrefs) LoadPreferences(id string) (Preferences, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prefs[id]
	return p, ok, nil
}

func (m *memPrefs) SaveAutorefresh(id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prefs[id]
	if !ok {
		p.Autorefresh = true
	}
	p.Autorefresh = enabled
	m.prefs[id] = p
	return nil
}

func (m *memPrefs) SaveLocation(id string, loc Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prefs[id]
	if !ok {
		p.Autorefresh = true
	}
	p.LastKnownLocation = &loc
	m.prefs[id] = p
	return nil
}

type testEnv struct {
	provider  *fakeProvider
	locations *fakeLocations
	sink      *recorder
	emitter   *Emitter
	registry  *Registry
}

func newTestEnv(t *testing.T, opts ...RegistryOption) *testEnv {
	t.Helper()
	env := &testEnv{
		provider:  &fakeProvider{},
		locations: &fakeLocations{},
		sink:      &recorder{},
	}
	env.emitter = NewEmitter(env.sink, discardLogger())
	opts = append([]RegistryOption{WithLocationProvider(env.locations)}, opts...)
	reg, err := NewRegistry(env.provider, env.emitter, discardLogger(), opts...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	env.registry = reg
	return env
}

func (env *testEnv) unit(t *testing.T, id string) *AdBridge {
	t.Helper()
	b, err := env.registry.GetOrCreate(id)
	if err != nil {
		t.Fatalf("GetOrCreate(%q): %v", id, err)
	}
	return b
}
