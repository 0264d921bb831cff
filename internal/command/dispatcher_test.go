package command

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/arko-chat/adbridge/internal/adbridge"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubAd struct {
	id    string
	loads int
	shown int
}

func (a *stubAd) ID() string               { return a.id }
func (a *stubAd) Load(adbridge.AdRequest)  { a.loads++ }
func (a *stubAd) SetVisible(bool)          {}
func (a *stubAd) SetAutorefresh(bool)      {}
func (a *stubAd) ForceRefresh()            {}
func (a *stubAd) Show()                    { a.shown++ }
func (a *stubAd) Destroy()                 {}

type stubProvider struct {
	panicOnBanner string
	banners       []*stubAd
	interstitials []*stubAd
	listeners     []adbridge.InterstitialListener
}

func (p *stubProvider) NewBanner(unit string, w, h float64, pos adbridge.AdPosition, l adbridge.BannerListener) adbridge.BannerAd {
	if p.panicOnBanner != "" {
		panic(p.panicOnBanner)
	}
	ad := &stubAd{id: "banner"}
	p.banners = append(p.banners, ad)
	return ad
}

func (p *stubProvider) NewInterstitial(unit string, l adbridge.InterstitialListener) adbridge.FullscreenAd {
	ad := &stubAd{id: "interstitial"}
	p.interstitials = append(p.interstitials, ad)
	p.listeners = append(p.listeners, l)
	return ad
}

func (p *stubProvider) NewRewardedVideo(unit string, l adbridge.RewardedListener) adbridge.FullscreenAd {
	return &stubAd{id: "rewarded"}
}

func (p *stubProvider) ScreenWidth() float64 { return 320 }

type countingRunner struct {
	calls int
	err   error
}

func (r *countingRunner) Call(ctx context.Context, fn func()) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	fn()
	return nil
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *stubProvider, *adbridge.Registry, *countingRunner) {
	t.Helper()
	provider := &stubProvider{}
	emitter := adbridge.NewEmitter(adbridge.SinkFunc(func(string, string) {}), discardLogger())
	reg, err := adbridge.NewRegistry(provider, emitter, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	runner := &countingRunner{}
	return NewDispatcher(reg, runner, discardLogger()), provider, reg, runner
}

func TestDispatchRejectsEmptyAdUnit(t *testing.T) {
	d, _, reg, _ := newTestDispatcher(t)

	for _, m := range []Method{GetOrCreateMethod, ShowBannerMethod, RequestInterstitialAdMethod} {
		resp := d.Dispatch(context.Background(), Action{ID: "1", Method: m})
		if resp.Code != CodeInvalidArgument {
			t.Errorf("%s: expected code %d, got %d", m, CodeInvalidArgument, resp.Code)
		}
		if resp.ID != "1" || resp.Method != m {
			t.Errorf("%s: response not correlated: %+v", m, resp)
		}
	}
	if reg.Len() != 0 {
		t.Fatalf("expected no units, got %d", reg.Len())
	}
}

func TestDispatchUnknownMethod(t *testing.T) {
	d, _, reg, _ := newTestDispatcher(t)

	resp := d.Dispatch(context.Background(), Action{Method: "launchRocket", AdUnitID: "unit"})
	if resp.Code != CodeInvalidArgument {
		t.Fatalf("expected code %d, got %d", CodeInvalidArgument, resp.Code)
	}
	if reg.Len() != 0 {
		t.Fatal("unknown method created a unit")
	}
}

func TestDispatchRequestBanner(t *testing.T) {
	d, provider, reg, runner := newTestDispatcher(t)

	cases := []struct {
		name string
		data string
		code int
	}{
		{"explicit geometry", `{"width":320,"height":50,"position":5}`, CodeOK},
		{"standard size", `{"size":1,"position":0}`, CodeOK},
		{"bad size", `{"size":9,"position":0}`, CodeInvalidArgument},
		{"zero height", `{"width":320,"height":0,"position":0}`, CodeInvalidArgument},
		{"bad position", `{"width":320,"height":50,"position":12}`, CodeInvalidArgument},
		{"missing data", ``, CodeInvalidArgument},
		{"malformed", `{"width":`, CodeInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := d.Dispatch(context.Background(), Action{
				Method:   RequestBannerMethod,
				AdUnitID: "unit",
				Data:     json.RawMessage(tc.data),
			})
			if resp.Code != tc.code {
				t.Fatalf("expected code %d, got %d (%v)", tc.code, resp.Code, resp.Data)
			}
		})
	}

	if len(provider.banners) != 2 {
		t.Fatalf("expected 2 banners created, got %d", len(provider.banners))
	}
	b, _ := reg.Lookup("unit")
	if b.BannerState() != adbridge.StateLoading {
		t.Fatalf("expected Loading, got %s", b.BannerState())
	}
	if runner.calls != len(cases) {
		t.Fatalf("expected every command on the runner, got %d calls", runner.calls)
	}
}

func TestDispatchInterstitialFlow(t *testing.T) {
	d, provider, _, _ := newTestDispatcher(t)
	ctx := context.Background()
	do := func(m Method, data string) Response {
		return d.Dispatch(ctx, Action{Method: m, AdUnitID: "unit", Data: json.RawMessage(data)})
	}

	if resp := do(InterstitialIsReadyMethod, ""); resp.Data != false {
		t.Fatalf("expected not ready, got %v", resp.Data)
	}
	if resp := do(RequestInterstitialAdMethod, `{"keywords":"game"}`); resp.Code != CodeOK {
		t.Fatalf("request failed: %+v", resp)
	}
	if resp := do(InterstitialIsReadyMethod, ""); resp.Data != false {
		t.Fatalf("expected not ready before load, got %v", resp.Data)
	}

	provider.listeners[0].OnInterstitialLoaded("interstitial")
	if resp := do(InterstitialIsReadyMethod, ""); resp.Data != true {
		t.Fatalf("expected ready, got %v", resp.Data)
	}
	do(ShowInterstitialAdMethod, "")
	if provider.interstitials[0].shown != 1 {
		t.Fatal("expected the interstitial to be shown")
	}

	if resp := do(DestroyInterstitialAdMethod, ""); resp.Code != CodeOK {
		t.Fatalf("destroy failed: %+v", resp)
	}
	if resp := do(DestroyInterstitialAdMethod, ""); resp.Code != CodeOK {
		t.Fatalf("second destroy failed: %+v", resp)
	}
}

func TestDispatchSetForeground(t *testing.T) {
	d, _, reg, _ := newTestDispatcher(t)

	resp := d.Dispatch(context.Background(), Action{Method: SetForegroundMethod, Data: json.RawMessage(`false`)})
	if resp.Code != CodeOK {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if reg.Emitter().Foreground() {
		t.Fatal("expected host to be marked as not ready")
	}

	resp = d.Dispatch(context.Background(), Action{Method: SetForegroundMethod, Data: json.RawMessage(`"yes"`)})
	if resp.Code != CodeInvalidArgument {
		t.Fatalf("expected code %d, got %d", CodeInvalidArgument, resp.Code)
	}
}

func TestDispatchRunnerFailure(t *testing.T) {
	d, _, _, runner := newTestDispatcher(t)
	runner.err = errors.New("loop stopped")

	resp := d.Dispatch(context.Background(), Action{Method: ShowBannerMethod, AdUnitID: "unit"})
	if resp.Code != CodeUnavailable {
		t.Fatalf("expected code %d, got %d", CodeUnavailable, resp.Code)
	}
}

func TestDispatchRecoversCommandPanic(t *testing.T) {
	d, provider, _, _ := newTestDispatcher(t)
	provider.panicOnBanner = "sdk exploded"

	resp := d.Dispatch(context.Background(), Action{
		ID:       "9",
		Method:   RequestBannerMethod,
		AdUnitID: "unit",
		Data:     json.RawMessage(`{"size":0,"position":0}`),
	})
	if resp.Code != CodeUnavailable {
		t.Fatalf("expected code %d, got %d", CodeUnavailable, resp.Code)
	}
	if msg, _ := resp.Data.(string); msg != "command panicked: sdk exploded" {
		t.Fatalf("unexpected data %v", resp.Data)
	}
	if resp.ID != "9" {
		t.Fatalf("response not correlated: %+v", resp)
	}

	provider.panicOnBanner = ""
	if resp := d.Dispatch(context.Background(), Action{Method: GetOrCreateMethod, AdUnitID: "unit"}); resp.Code != CodeOK {
		t.Fatalf("dispatcher unusable after a panic: %+v", resp)
	}
}

func TestDispatchJSON(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)

	out := d.DispatchJSON(context.Background(), []byte(`{"id":"7","method":"getOrCreate","adUnitId":"unit"}`))
	var resp struct {
		ID   string        `json:"id"`
		Code int           `json:"code"`
		Data adbridge.Info `json:"data"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID != "7" || resp.Code != CodeOK || resp.Data.AdUnitID != "unit" {
		t.Fatalf("unexpected response: %s", out)
	}

	out = d.DispatchJSON(context.Background(), []byte(`not json`))
	var bad Response
	if err := json.Unmarshal(out, &bad); err != nil {
		t.Fatal(err)
	}
	if bad.Code != CodeInvalidArgument {
		t.Fatalf("expected code %d, got %d", CodeInvalidArgument, bad.Code)
	}
}

func TestDispatchListUnits(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)

	for _, unit := range []string{"a", "b"} {
		if resp := d.Dispatch(context.Background(), Action{Method: GetOrCreateMethod, AdUnitID: unit}); resp.Code != CodeOK {
			t.Fatalf("getOrCreate %s: %+v", unit, resp)
		}
	}

	out := d.DispatchJSON(context.Background(), []byte(`{"method":"listUnits"}`))
	var resp struct {
		Code int             `json:"code"`
		Data []adbridge.Info `json:"data"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != CodeOK || len(resp.Data) != 2 {
		t.Fatalf("unexpected response: %s", out)
	}
}
