package mobile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/arko-chat/adbridge/internal/adbridge"
	"github.com/arko-chat/adbridge/internal/bridge"
	"github.com/arko-chat/adbridge/internal/command"
	"github.com/arko-chat/adbridge/internal/logger"
	"github.com/arko-chat/adbridge/internal/store"
)

var (
	mu         sync.Mutex
	registry   *adbridge.Registry
	dispatcher *command.Dispatcher
	prefs      *store.Store
	slogger    = logger.New(os.Stdout, slog.LevelInfo, logger.Text)
)

// RegisterHost wires the bridge to the native host. Pass an empty dataDir to
// keep preferences in memory only.
func RegisterHost(h bridge.HostBridge, dataDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if registry != nil || bridge.Registered() {
		return bridge.ErrAlreadyRegistered
	}
	if h == nil {
		return adbridge.ErrInvalidArgument
	}

	var (
		s   *store.Store
		err error
	)
	if dataDir == "" {
		s, err = store.OpenInMemory(slogger)
	} else {
		s, err = store.Open(dataDir, slogger)
	}
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}

	adapter := bridge.NewAdapter(h, slogger)
	emitter := adbridge.NewEmitter(adapter, slogger)
	reg, err := adbridge.NewRegistry(adapter, emitter, slogger,
		adbridge.WithMainThread(adapter),
		adbridge.WithLocationProvider(adapter),
		adbridge.WithPrefStore(s),
	)
	if err != nil {
		s.Close()
		return err
	}
	if err := bridge.Register(h); err != nil {
		s.Close()
		return err
	}

	prefs = s
	registry = reg
	// native calls arrive on the main thread already
	dispatcher = command.NewDispatcher(registry, command.Inline, slogger)
	slogger.Info("host registered")
	return nil
}

// SetBackgroundEventCallback installs the receiver for events allowed while
// the engine is paused. It can be set once.
func SetBackgroundEventCallback(cb bridge.BackgroundCallback) error {
	if cb == nil {
		return adbridge.ErrInvalidArgument
	}
	reg, err := current()
	if err != nil {
		return err
	}
	return reg.Emitter().SetBackgroundSink(bridge.BackgroundSink(cb))
}

// SetForeground tells the bridge whether the engine can take events now.
func SetForeground(ready bool) error {
	reg, err := current()
	if err != nil {
		return err
	}
	reg.Emitter().SetForeground(ready)
	return nil
}

// SetLogLevel accepts debug, info, warn or error.
func SetLogLevel(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if registry != nil {
		return errors.New("set the log level before RegisterHost")
	}
	slogger = logger.New(os.Stdout, lvl, logger.Text)
	return nil
}

// Invoke runs a JSON-encoded command and returns the JSON response.
func Invoke(actionJSON string) string {
	mu.Lock()
	d := dispatcher
	mu.Unlock()

	if d == nil {
		return fmt.Sprintf(`{"id":"","method":"","data":%q,"code":%d}`,
			bridge.ErrNotRegistered.Error(), command.CodeUnavailable)
	}
	return string(d.DispatchJSON(context.Background(), []byte(actionJSON)))
}

func current() (*adbridge.Registry, error) {
	mu.Lock()
	defer mu.Unlock()
	if registry == nil {
		return nil, bridge.ErrNotRegistered
	}
	return registry, nil
}

func unit(adUnitID string) (*adbridge.AdBridge, error) {
	reg, err := current()
	if err != nil {
		return nil, err
	}
	return reg.GetOrCreate(adUnitID)
}

// Shutdown closes the preference store. Ad calls fail afterwards and the
// host cannot be registered again.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()

	registry = nil
	dispatcher = nil
	if prefs == nil {
		return nil
	}
	err := prefs.Close()
	prefs = nil
	return err
}
