// Package simsdk is a stand-in ad network for development hosts and tests.
//
// Every SDK action completes one frame later on a timer goroutine, so
// callbacks reach the bridge off the main thread the way a native SDK's
// would. Destroying a handle does not cancel callbacks already scheduled.
package simsdk

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arko-chat/adbridge/internal/adbridge"
	"github.com/google/uuid"
)

const (
	DefaultFrame       = 16 * time.Millisecond
	DefaultScreenWidth = 320

	RewardLabel  = "coins"
	RewardAmount = 10
)

type Provider struct {
	logger      *slog.Logger
	frame       time.Duration
	screenWidth float64
	expiry      time.Duration

	mu       sync.Mutex
	failNext map[string]string
}

var _ adbridge.AdProvider = (*Provider)(nil)

type Option func(*Provider)

// WithFrame sets the delay between an action and its callback.
func WithFrame(d time.Duration) Option {
	return func(p *Provider) {
		if d >= 0 {
			p.frame = d
		}
	}
}

func WithScreenWidth(w float64) Option {
	return func(p *Provider) {
		if w > 0 {
			p.screenWidth = w
		}
	}
}

// WithExpiry makes loaded fullscreen ads expire after d unless shown.
// Zero disables expiry.
func WithExpiry(d time.Duration) Option {
	return func(p *Provider) { p.expiry = d }
}

func New(logger *slog.Logger, opts ...Option) *Provider {
	p := &Provider{
		logger:      logger,
		frame:       DefaultFrame,
		screenWidth: DefaultScreenWidth,
		failNext:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FailNext makes the next load for adUnitID fail with reason.
func (p *Provider) FailNext(adUnitID, reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext[adUnitID] = reason
}

func (p *Provider) takeFailure(adUnitID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	reason, ok := p.failNext[adUnitID]
	if ok {
		delete(p.failNext, adUnitID)
	}
	return reason, ok
}

func (p *Provider) ScreenWidth() float64 {
	return p.screenWidth
}

func (p *Provider) later(frames int, fn func()) {
	p.laterBy(time.Duration(frames)*p.frame, fn)
}

func (p *Provider) laterBy(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

func newHandleID(kind string) string {
	return fmt.Sprintf("%s-%s", kind, uuid.NewString())
}

func impressionJSON(adUnitID, handleID string) string {
	return fmt.Sprintf(`{"adunit_id":%q,"handle_id":%q,"network":"simulated","currency":"USD","publisher_revenue":0.0001}`,
		adUnitID, handleID)
}

func (p *Provider) NewBanner(
	adUnitID string,
	width, height float64,
	position adbridge.AdPosition,
	listener adbridge.BannerListener,
) adbridge.BannerAd {
	b := &banner{
		p:           p,
		id:          newHandleID("banner"),
		adUnitID:    adUnitID,
		width:       width,
		height:      height,
		listener:    listener,
		autorefresh: true,
	}
	p.logger.Debug("simulated banner created", "unit", adUnitID, "handle", b.id, "position", position.String())
	return b
}

func (p *Provider) NewInterstitial(adUnitID string, listener adbridge.InterstitialListener) adbridge.FullscreenAd {
	f := &fullscreen{
		p:        p,
		id:       newHandleID("interstitial"),
		adUnitID: adUnitID,
		events: fullscreenEvents{
			loaded:    listener.OnInterstitialLoaded,
			failed:    listener.OnInterstitialFailed,
			shown:     listener.OnInterstitialShown,
			dismissed: listener.OnInterstitialDismissed,
			expired:   listener.OnInterstitialExpired,
			impressed: listener.OnImpressionTracked,
		},
	}
	p.logger.Debug("simulated interstitial created", "unit", adUnitID, "handle", f.id)
	return f
}

func (p *Provider) NewRewardedVideo(adUnitID string, listener adbridge.RewardedListener) adbridge.FullscreenAd {
	f := &fullscreen{
		p:        p,
		id:       newHandleID("rewarded"),
		adUnitID: adUnitID,
		events: fullscreenEvents{
			loaded:    listener.OnRewardedLoaded,
			failed:    listener.OnRewardedFailed,
			shown:     listener.OnRewardedShown,
			dismissed: listener.OnRewardedClosed,
			expired:   listener.OnRewardedExpired,
			impressed: listener.OnImpressionTracked,
			rewarded: func(id string) {
				listener.OnRewardedReceivedReward(id, RewardLabel, RewardAmount)
			},
		},
	}
	p.logger.Debug("simulated rewarded video created", "unit", adUnitID, "handle", f.id)
	return f
}
