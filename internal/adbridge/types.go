package adbridge

import (
	"fmt"
	"time"
)

// AdPosition anchors a banner on screen. Values match the native SDK enum.
type AdPosition int

const (
	PositionTopLeft AdPosition = iota
	PositionTopCenter
	PositionTopRight
	PositionCentered
	PositionBottomLeft
	PositionBottomCenter
	PositionBottomRight
)

var positionNames = [...]string{
	"TopLeft",
	"TopCenter",
	"TopRight",
	"Centered",
	"BottomLeft",
	"BottomCenter",
	"BottomRight",
}

func (p AdPosition) Valid() bool {
	return p >= PositionTopLeft && p <= PositionBottomRight
}

func (p AdPosition) String() string {
	if !p.Valid() {
		return fmt.Sprintf("AdPosition(%d)", int(p))
	}
	return positionNames[p]
}

// AdSize requests a screen-wide banner of a fixed height.
type AdSize int

const (
	AdSize50Height AdSize = iota
	AdSize90Height
	AdSize250Height
	AdSize280Height
)

func (s AdSize) Valid() bool {
	return s >= AdSize50Height && s <= AdSize280Height
}

func (s AdSize) Height() float64 {
	switch s {
	case AdSize90Height:
		return 90
	case AdSize250Height:
		return 250
	case AdSize280Height:
		return 280
	default:
		return 50
	}
}

// BannerType is the fixed-geometry banner selector kept for hosts that still
// call CreateBanner. New code should use AdSize or explicit geometry.
type BannerType int

const (
	BannerType320x50 BannerType = iota
	BannerType300x250
	BannerType728x90
	BannerType160x600
)

func (t BannerType) Valid() bool {
	return t >= BannerType320x50 && t <= BannerType160x600
}

func (t BannerType) Size() (width, height float64) {
	switch t {
	case BannerType300x250:
		return 300, 250
	case BannerType728x90:
		return 728, 90
	case BannerType160x600:
		return 160, 600
	default:
		return 320, 50
	}
}

// AdState tracks one SDK handle from request to teardown.
type AdState int

const (
	StateUnrequested AdState = iota
	StateLoading
	StateReady
	StateFailed
	StateShown
	StateDismissed
)

func (s AdState) String() string {
	switch s {
	case StateUnrequested:
		return "unrequested"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateShown:
		return "shown"
	case StateDismissed:
		return "dismissed"
	default:
		return fmt.Sprintf("AdState(%d)", int(s))
	}
}

type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Info is a point-in-time view of one instance, safe to hand to other goroutines.
type Info struct {
	AdUnitID          string     `json:"ad_unit_id"`
	Banner            AdState    `json:"banner"`
	BannerPosition    AdPosition `json:"banner_position"`
	BannerVisible     bool       `json:"banner_visible"`
	Interstitial      AdState    `json:"interstitial"`
	Rewarded          AdState    `json:"rewarded"`
	LocationEnabled   bool       `json:"location_enabled"`
	Autorefresh       bool       `json:"autorefresh"`
	LastKnownLocation *Location  `json:"last_known_location,omitempty"`
}
