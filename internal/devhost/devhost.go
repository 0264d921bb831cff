// Package devhost runs the bridge against the simulated ad network with an
// HTTP front end standing in for the game engine.
package devhost

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/arko-chat/adbridge/internal/adbridge"
	"github.com/arko-chat/adbridge/internal/command"
	"github.com/arko-chat/adbridge/internal/config"
	"github.com/arko-chat/adbridge/internal/handlers"
	"github.com/arko-chat/adbridge/internal/mainloop"
	"github.com/arko-chat/adbridge/internal/router"
	"github.com/arko-chat/adbridge/internal/session"
	"github.com/arko-chat/adbridge/internal/simsdk"
	"github.com/arko-chat/adbridge/internal/store"
	"github.com/arko-chat/adbridge/internal/ws"
	"golang.org/x/sync/errgroup"
)

// InMemory as DataDir keeps preferences for the lifetime of the process only.
const InMemory = ":memory:"

const shutdownTimeout = 5 * time.Second

type Host struct {
	logger    *slog.Logger
	loop      *mainloop.Loop
	provider  *simsdk.Provider
	locations *simsdk.Locations
	prefs     *store.Store
	registry  *adbridge.Registry
	hub       *ws.Hub
	server    *http.Server
	listener  net.Listener
	baseURL   string
}

var (
	_ adbridge.Sink           = (*Host)(nil)
	_ adbridge.BackgroundSink = (*Host)(nil)
	_ handlers.Simulator      = (*Host)(nil)
	_ handlers.Preferences    = (*store.Store)(nil)
)

// New wires every component and binds the listen address. Nothing runs
// until Run is called.
func New(cfg *config.Config, logger *slog.Logger) (*Host, error) {
	secret, err := base64.StdEncoding.DecodeString(cfg.CookieSecret)
	if err != nil || len(secret) < 16 {
		secret = []byte(cfg.CookieSecret)
	}
	if len(secret) == 0 {
		return nil, errors.New("devhost: empty cookie secret")
	}

	var prefs *store.Store
	if cfg.DataDir == InMemory {
		prefs, err = store.OpenInMemory(logger)
	} else {
		prefs, err = store.Open(cfg.DataDir, logger)
	}
	if err != nil {
		return nil, err
	}
	if units, err := prefs.Units(); err != nil {
		logger.Warn("failed to list saved preferences", "err", err)
	} else if len(units) > 0 {
		logger.Info("restored saved preferences", "units", units)
	}

	h := &Host{
		logger:    logger,
		loop:      mainloop.New(logger.With("component", "mainloop")),
		locations: simsdk.NewLocations(logger),
		prefs:     prefs,
		hub:       ws.NewHub(logger),
	}
	h.provider = simsdk.New(logger.With("component", "simsdk"),
		simsdk.WithFrame(time.Duration(cfg.FrameMillis)*time.Millisecond),
		simsdk.WithScreenWidth(cfg.ScreenWidth),
	)

	policy := adbridge.QueuePolicy
	if cfg.EventPolicy == "drop" {
		policy = adbridge.DropPolicy
	}
	emitter := adbridge.NewEmitter(h, logger,
		adbridge.WithPolicy(policy),
		adbridge.WithQueueLimit(cfg.QueueLimit),
	)
	if err := emitter.SetBackgroundSink(h); err != nil {
		prefs.Close()
		return nil, err
	}

	h.registry, err = adbridge.NewRegistry(h.provider, emitter, logger,
		adbridge.WithLocationProvider(h.locations),
		adbridge.WithMainThread(h.loop),
		adbridge.WithPrefStore(prefs),
	)
	if err != nil {
		prefs.Close()
		return nil, err
	}

	h.listener, err = net.Listen("tcp", cfg.Addr)
	if err != nil {
		prefs.Close()
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	h.baseURL = fmt.Sprintf("http://%s", h.listener.Addr().String())

	dispatcher := command.NewDispatcher(h.registry, h.loop, logger)
	handler := handlers.New(dispatcher, h.registry, h.hub, h, prefs, h.baseURL, logger)
	codec := session.NewCodec(secret, nil)
	h.server = &http.Server{
		Handler:           router.New(handler, codec, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return h, nil
}

func (h *Host) URL() string {
	return h.baseURL
}

func (h *Host) Registry() *adbridge.Registry {
	return h.registry
}

// Run serves until ctx is cancelled or the server fails.
func (h *Host) Run(ctx context.Context) error {
	defer func() {
		if err := h.prefs.Close(); err != nil {
			h.logger.Warn("failed to close preference store", "err", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return h.loop.Run(ctx)
	})

	g.Go(func() error {
		h.logger.Info("devhost listening", "addr", h.baseURL)
		if err := h.server.Serve(h.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return h.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (h *Host) Deliver(eventName string, argsJSON string) {
	h.hub.Broadcast(ws.EventsRoom, ws.EncodeEvent(eventName, argsJSON, false))
}

func (h *Host) DeliverBackground(eventName string, argsJSON string) {
	h.hub.Broadcast(ws.EventsRoom, ws.EncodeEvent(eventName, argsJSON, true))
}

func (h *Host) FailNext(adUnitID, reason string) {
	h.provider.FailNext(adUnitID, reason)
}

func (h *Host) PublishLocation(loc adbridge.Location) int {
	return h.locations.Publish(loc)
}
