package adbridge

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Event names delivered to the host. They are part of the host contract and
// must not change.
const (
	EventAdLoaded    = "EmitAdLoadedEvent"
	EventAdFailed    = "EmitAdFailedEvent"
	EventAdClicked   = "EmitAdClickedEvent"
	EventAdExpanded  = "EmitAdExpandedEvent"
	EventAdCollapsed = "EmitAdCollapsedEvent"

	EventInterstitialLoaded    = "EmitInterstitialLoadedEvent"
	EventInterstitialFailed    = "EmitInterstitialFailedEvent"
	EventInterstitialShown     = "EmitInterstitialShownEvent"
	EventInterstitialClicked   = "EmitInterstitialClickedEvent"
	EventInterstitialDismissed = "EmitInterstitialDismissedEvent"
	EventInterstitialExpired   = "EmitInterstitialDidExpireEvent"

	EventRewardedLoaded         = "EmitRewardedVideoLoadedEvent"
	EventRewardedFailed         = "EmitRewardedVideoFailedEvent"
	EventRewardedShown          = "EmitRewardedVideoShownEvent"
	EventRewardedClicked        = "EmitRewardedVideoClickedEvent"
	EventRewardedFailedToPlay   = "EmitRewardedVideoFailedToPlayEvent"
	EventRewardedReceivedReward = "EmitRewardedVideoReceivedRewardEvent"
	EventRewardedClosed         = "EmitRewardedVideoClosedEvent"
	EventRewardedExpired        = "EmitRewardedVideoExpiredEvent"

	EventImpressionTracked = "EmitImpressionTrackedEvent"
	EventLocationChanged   = "EmitLocationChangedEvent"
)

type Event struct {
	Name string
	Args []string
}

// EncodeArgs renders args as a JSON array of strings. A nil slice encodes
// as "[]" so hosts never see "null".
func EncodeArgs(args ...string) string {
	if args == nil {
		args = []string{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		// []string always marshals
		return "[]"
	}
	return string(data)
}

// DecodeArgs parses an encoded argument list. The result always has at
// least min entries; missing values are padded with "" and reported in err.
func DecodeArgs(argsJSON string, min int) ([]string, error) {
	var args []string
	var err error
	if uerr := json.Unmarshal([]byte(argsJSON), &args); uerr != nil {
		err = fmt.Errorf("decode event args %q: %w", argsJSON, uerr)
		args = nil
	} else if len(args) < min {
		err = fmt.Errorf("event args %q: expected %d values, got %d", argsJSON, min, len(args))
	}
	for len(args) < min {
		args = append(args, "")
	}
	return args, err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
