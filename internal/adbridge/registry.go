package adbridge

import (
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/puzpuzpuz/xsync/v4"
)

const defaultRetiredCapacity = 512

// Preferences are the per-unit settings that outlive the process.
type Preferences struct {
	Autorefresh       bool
	LastKnownLocation *Location
}

// PrefStore persists Preferences. Errors are logged by the caller and never
// fail a command.
type PrefStore interface {
	LoadPreferences(adUnitID string) (Preferences, bool, error)
	SaveAutorefresh(adUnitID string, enabled bool) error
	SaveLocation(adUnitID string, loc Location) error
}

// Registry owns one AdBridge per ad unit for the lifetime of the process.
// It is built once at integration time and handed to every command handler.
type Registry struct {
	units     *xsync.Map[string, *AdBridge]
	provider  AdProvider
	locations LocationProvider
	main      MainThread
	emitter   *Emitter
	prefs     PrefStore
	retired   *lru.Cache[string, struct{}]
	logger    *slog.Logger

	retiredCapacity int
}

type RegistryOption func(*Registry)

func WithLocationProvider(p LocationProvider) RegistryOption {
	return func(r *Registry) { r.locations = p }
}

// WithMainThread sets where SDK callbacks are marshaled before they touch
// state. Without it callbacks run inline.
func WithMainThread(m MainThread) RegistryOption {
	return func(r *Registry) { r.main = m }
}

func WithPrefStore(s PrefStore) RegistryOption {
	return func(r *Registry) { r.prefs = s }
}

// WithRetiredCapacity bounds how many destroyed handle IDs are remembered
// for recognising late callbacks and SDKs that hand the same ID out again.
func WithRetiredCapacity(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.retiredCapacity = n
		}
	}
}

func NewRegistry(
	provider AdProvider,
	emitter *Emitter,
	logger *slog.Logger,
	opts ...RegistryOption,
) (*Registry, error) {
	if provider == nil || emitter == nil {
		return nil, fmt.Errorf("%w: provider and emitter are required", ErrInvalidArgument)
	}
	r := &Registry{
		units:           xsync.NewMap[string, *AdBridge](),
		provider:        provider,
		emitter:         emitter,
		main:            Inline,
		logger:          logger,
		retiredCapacity: defaultRetiredCapacity,
	}
	for _, opt := range opts {
		opt(r)
	}

	retired, err := lru.New[string, struct{}](r.retiredCapacity)
	if err != nil {
		return nil, fmt.Errorf("create retired handle cache: %w", err)
	}
	r.retired = retired
	return r, nil
}

// GetOrCreate returns the instance for adUnitID, creating it on first use.
// Concurrent callers with the same ID always get the same instance.
func (r *Registry) GetOrCreate(adUnitID string) (*AdBridge, error) {
	if strings.TrimSpace(adUnitID) == "" {
		return nil, fmt.Errorf("%w: empty ad unit id", ErrInvalidArgument)
	}

	b, _ := r.units.LoadOrCompute(adUnitID, func() (*AdBridge, bool) {
		return r.newBridge(adUnitID), false
	})
	return b, nil
}

// Lookup returns the instance without creating one.
func (r *Registry) Lookup(adUnitID string) (*AdBridge, bool) {
	return r.units.Load(adUnitID)
}

func (r *Registry) Len() int {
	return r.units.Size()
}

// Snapshot returns Info for every registered unit.
func (r *Registry) Snapshot() []Info {
	infos := make([]Info, 0, r.units.Size())
	r.units.Range(func(_ string, b *AdBridge) bool {
		infos = append(infos, b.Info())
		return true
	})
	return infos
}

func (r *Registry) Emitter() *Emitter {
	return r.emitter
}

func (r *Registry) newBridge(adUnitID string) *AdBridge {
	b := &AdBridge{
		adUnitID:       adUnitID,
		reg:            r,
		logger:         r.logger.With("unit", adUnitID),
		autorefresh:    true,
		bannerPosition: PositionBottomCenter,
	}

	if r.prefs != nil {
		prefs, ok, err := r.prefs.LoadPreferences(adUnitID)
		switch {
		case err != nil:
			b.logger.Warn("failed to load preferences", "err", err)
		case ok:
			b.autorefresh = prefs.Autorefresh
			b.lastLocation = prefs.LastKnownLocation
		}
	}

	b.logger.Debug("ad unit registered")
	return b
}

func (r *Registry) retire(handleID string) {
	if handleID != "" {
		r.retired.Add(handleID, struct{}{})
	}
}

func (r *Registry) isRetired(handleID string) bool {
	return r.retired.Contains(handleID)
}

// reclaim reports whether handleID was retired and makes it live again.
func (r *Registry) reclaim(handleID string) bool {
	return r.retired.Remove(handleID)
}
