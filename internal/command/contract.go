// Package command maps JSON actions from a host onto AdBridge operations.
package command

import "encoding/json"

type Method string

const (
	GetOrCreateMethod           Method = "getOrCreate"
	EnableLocationSupportMethod Method = "enableLocationSupport"

	RequestBannerMethod         Method = "requestBanner"
	CreateBannerMethod          Method = "createBanner"
	DestroyBannerMethod         Method = "destroyBanner"
	ShowBannerMethod            Method = "showBanner"
	HideBannerMethod            Method = "hideBanner"
	SetAutorefreshEnabledMethod Method = "setAutorefreshEnabled"
	ForceRefreshMethod          Method = "forceRefresh"
	RefreshAdMethod             Method = "refreshAd"

	RequestInterstitialAdMethod Method = "requestInterstitialAd"
	InterstitialIsReadyMethod   Method = "interstitialIsReady"
	ShowInterstitialAdMethod    Method = "showInterstitialAd"
	DestroyInterstitialAdMethod Method = "destroyInterstitialAd"

	RequestRewardedVideoMethod Method = "requestRewardedVideo"
	HasRewardedVideoMethod     Method = "hasRewardedVideo"
	ShowRewardedVideoMethod    Method = "showRewardedVideo"
	DestroyRewardedVideoMethod Method = "destroyRewardedVideo"

	SetForegroundMethod Method = "setForeground"
	ListUnitsMethod     Method = "listUnits"
)

const (
	CodeOK              = 0
	CodeInvalidArgument = -1
	CodeUnavailable     = -2
)

type Action struct {
	ID       string          `json:"id"`
	Method   Method          `json:"method"`
	AdUnitID string          `json:"adUnitId,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type Response struct {
	ID     string `json:"id"`
	Method Method `json:"method"`
	Data   any    `json:"data"`
	Code   int    `json:"code"`
}

// RequestBannerParams carries either explicit geometry or a standard size.
// When Size is set, Width is ignored and the banner spans the screen.
type RequestBannerParams struct {
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	Size             *int    `json:"size,omitempty"`
	Position         int     `json:"position"`
	Keywords         string  `json:"keywords"`
	UserDataKeywords string  `json:"userDataKeywords"`
}

type CreateBannerParams struct {
	BannerType int `json:"bannerType"`
	Position   int `json:"position"`
}

type TargetingParams struct {
	Keywords         string `json:"keywords"`
	UserDataKeywords string `json:"userDataKeywords"`
}

var methods = map[Method]struct{}{
	GetOrCreateMethod:           {},
	EnableLocationSupportMethod: {},
	RequestBannerMethod:         {},
	CreateBannerMethod:          {},
	DestroyBannerMethod:         {},
	ShowBannerMethod:            {},
	HideBannerMethod:            {},
	SetAutorefreshEnabledMethod: {},
	ForceRefreshMethod:          {},
	RefreshAdMethod:             {},
	RequestInterstitialAdMethod: {},
	InterstitialIsReadyMethod:   {},
	ShowInterstitialAdMethod:    {},
	DestroyInterstitialAdMethod: {},
	RequestRewardedVideoMethod:  {},
	HasRewardedVideoMethod:      {},
	ShowRewardedVideoMethod:     {},
	DestroyRewardedVideoMethod:  {},
	SetForegroundMethod:         {},
	ListUnitsMethod:             {},
}

func (m Method) Known() bool {
	_, ok := methods[m]
	return ok
}
