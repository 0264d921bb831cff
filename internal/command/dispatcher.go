package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arko-chat/adbridge/internal/adbridge"
)

// Runner executes fn on the host main thread and waits for it.
type Runner interface {
	Call(ctx context.Context, fn func()) error
}

// Inline runs fn on the calling goroutine, for hosts that already invoke
// commands from their main thread.
var Inline Runner = inlineRunner{}

type inlineRunner struct{}

func (inlineRunner) Call(_ context.Context, fn func()) error {
	fn()
	return nil
}

type Dispatcher struct {
	registry *adbridge.Registry
	runner   Runner
	logger   *slog.Logger
}

func NewDispatcher(registry *adbridge.Registry, runner Runner, logger *slog.Logger) *Dispatcher {
	if runner == nil {
		runner = Inline
	}
	return &Dispatcher{registry: registry, runner: runner, logger: logger}
}

// Dispatch decodes action, runs it on the main thread and builds the
// response. Invalid input yields CodeInvalidArgument and a command that
// panics yields CodeUnavailable. Ad load failures are never reported here,
// only as events.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action) Response {
	resp := Response{ID: action.ID, Method: action.Method, Code: CodeOK}

	var (
		data     any
		err      error
		panicked any
	)
	if callErr := d.runner.Call(ctx, func() {
		defer func() {
			panicked = recover()
		}()
		data, err = d.handle(action)
	}); callErr != nil {
		d.logger.Warn("command not run", "method", action.Method, "err", callErr)
		resp.Code = CodeUnavailable
		resp.Data = callErr.Error()
		return resp
	}

	if panicked != nil {
		d.logger.Error("command panicked", "method", action.Method, "unit", action.AdUnitID, "panic", panicked)
		resp.Code = CodeUnavailable
		resp.Data = fmt.Sprintf("command panicked: %v", panicked)
		return resp
	}

	if err != nil {
		resp.Code = CodeInvalidArgument
		if !errors.Is(err, adbridge.ErrInvalidArgument) {
			resp.Code = CodeUnavailable
		}
		resp.Data = err.Error()
		d.logger.Debug("command rejected", "method", action.Method, "unit", action.AdUnitID, "err", err)
		return resp
	}

	resp.Data = data
	return resp
}

func invalid(method Method, err error) error {
	return fmt.Errorf("%w: %s: invalid params: %v", adbridge.ErrInvalidArgument, method, err)
}

func (d *Dispatcher) handle(action Action) (any, error) {
	if !action.Method.Known() {
		return nil, fmt.Errorf("%w: unknown method %q", adbridge.ErrInvalidArgument, action.Method)
	}

	switch action.Method {
	case SetForegroundMethod:
		ready, err := decodeBool(action.Data)
		if err != nil {
			return nil, invalid(action.Method, err)
		}
		d.registry.Emitter().SetForeground(ready)
		return true, nil
	case ListUnitsMethod:
		return d.registry.Snapshot(), nil
	}

	b, err := d.registry.GetOrCreate(action.AdUnitID)
	if err != nil {
		return nil, err
	}

	switch action.Method {
	case GetOrCreateMethod:
		return b.Info(), nil
	case EnableLocationSupportMethod:
		enabled, err := decodeBool(action.Data)
		if err != nil {
			return nil, invalid(action.Method, err)
		}
		b.EnableLocationSupport(enabled)
		return true, nil

	case RequestBannerMethod:
		var params RequestBannerParams
		if err := decodeJSON(action.Data, &params); err != nil {
			return nil, invalid(action.Method, err)
		}
		position := adbridge.AdPosition(params.Position)
		if params.Size != nil {
			err = b.RequestBannerSize(adbridge.AdSize(*params.Size), position, params.Keywords, params.UserDataKeywords)
		} else {
			err = b.RequestBanner(params.Width, params.Height, position, params.Keywords, params.UserDataKeywords)
		}
		if err != nil {
			return nil, err
		}
		return true, nil
	case CreateBannerMethod:
		var params CreateBannerParams
		if err := decodeJSON(action.Data, &params); err != nil {
			return nil, invalid(action.Method, err)
		}
		if err := b.CreateBanner(adbridge.BannerType(params.BannerType), adbridge.AdPosition(params.Position)); err != nil {
			return nil, err
		}
		return true, nil
	case DestroyBannerMethod:
		b.DestroyBanner()
		return true, nil
	case ShowBannerMethod:
		b.ShowBanner()
		return true, nil
	case HideBannerMethod:
		var destroy bool
		if err := decodeOptionalJSON(action.Data, &destroy); err != nil {
			return nil, invalid(action.Method, err)
		}
		b.HideBanner(destroy)
		return true, nil
	case SetAutorefreshEnabledMethod:
		enabled, err := decodeBool(action.Data)
		if err != nil {
			return nil, invalid(action.Method, err)
		}
		b.SetAutorefreshEnabled(enabled)
		return true, nil
	case ForceRefreshMethod:
		b.ForceRefresh()
		return true, nil
	case RefreshAdMethod:
		var params TargetingParams
		if err := decodeOptionalJSON(action.Data, &params); err != nil {
			return nil, invalid(action.Method, err)
		}
		b.RefreshAd(params.Keywords, params.UserDataKeywords)
		return true, nil

	case RequestInterstitialAdMethod:
		var params TargetingParams
		if err := decodeOptionalJSON(action.Data, &params); err != nil {
			return nil, invalid(action.Method, err)
		}
		b.RequestInterstitialAd(params.Keywords, params.UserDataKeywords)
		return true, nil
	case InterstitialIsReadyMethod:
		return b.InterstitialIsReady(), nil
	case ShowInterstitialAdMethod:
		b.ShowInterstitialAd()
		return true, nil
	case DestroyInterstitialAdMethod:
		b.DestroyInterstitialAd()
		return true, nil

	case RequestRewardedVideoMethod:
		var params TargetingParams
		if err := decodeOptionalJSON(action.Data, &params); err != nil {
			return nil, invalid(action.Method, err)
		}
		b.RequestRewardedVideo(params.Keywords, params.UserDataKeywords)
		return true, nil
	case HasRewardedVideoMethod:
		return b.HasRewardedVideo(), nil
	case ShowRewardedVideoMethod:
		b.ShowRewardedVideo()
		return true, nil
	case DestroyRewardedVideoMethod:
		b.DestroyRewardedVideo()
		return true, nil
	}

	return nil, fmt.Errorf("%w: unhandled method %q", adbridge.ErrInvalidArgument, action.Method)
}

// DispatchJSON is Dispatch over the wire form. A malformed action still
// produces a well-formed response.
func (d *Dispatcher) DispatchJSON(ctx context.Context, raw []byte) []byte {
	var action Action
	var resp Response
	if err := json.Unmarshal(raw, &action); err != nil {
		resp = Response{Code: CodeInvalidArgument, Data: "invalid action: " + err.Error()}
	} else {
		resp = d.Dispatch(ctx, action)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		d.logger.Error("failed to encode response", "method", resp.Method, "err", err)
		out, _ = json.Marshal(Response{ID: resp.ID, Method: resp.Method, Code: CodeUnavailable, Data: err.Error()})
	}
	return out
}
