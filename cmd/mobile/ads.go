package mobile

import "github.com/arko-chat/adbridge/internal/adbridge"

func GetOrCreate(adUnitID string) error {
	_, err := unit(adUnitID)
	return err
}

func EnableLocationSupport(adUnitID string, enabled bool) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.EnableLocationSupport(enabled)
	return nil
}

func RequestBanner(adUnitID string, width, height float64, position int, keywords, userDataKeywords string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	return b.RequestBanner(width, height, adbridge.AdPosition(position), keywords, userDataKeywords)
}

// RequestBannerSize requests a screen-wide banner of a standard height.
func RequestBannerSize(adUnitID string, size, position int, keywords, userDataKeywords string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	return b.RequestBannerSize(adbridge.AdSize(size), adbridge.AdPosition(position), keywords, userDataKeywords)
}

// Deprecated: use RequestBanner or RequestBannerSize.
func CreateBanner(adUnitID string, bannerType, position int) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	return b.CreateBanner(adbridge.BannerType(bannerType), adbridge.AdPosition(position))
}

func DestroyBanner(adUnitID string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.DestroyBanner()
	return nil
}

func ShowBanner(adUnitID string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.ShowBanner()
	return nil
}

func HideBanner(adUnitID string, shouldDestroy bool) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.HideBanner(shouldDestroy)
	return nil
}

func SetAutorefreshEnabled(adUnitID string, enabled bool) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.SetAutorefreshEnabled(enabled)
	return nil
}

func ForceRefresh(adUnitID string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.ForceRefresh()
	return nil
}

func RefreshAd(adUnitID string, keywords, userDataKeywords string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.RefreshAd(keywords, userDataKeywords)
	return nil
}

func RequestInterstitialAd(adUnitID string, keywords, userDataKeywords string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.RequestInterstitialAd(keywords, userDataKeywords)
	return nil
}

// InterstitialIsReady reports false for unknown or empty ad unit ids.
func InterstitialIsReady(adUnitID string) bool {
	b, err := unit(adUnitID)
	if err != nil {
		return false
	}
	return b.InterstitialIsReady()
}

func ShowInterstitialAd(adUnitID string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.ShowInterstitialAd()
	return nil
}

func DestroyInterstitialAd(adUnitID string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.DestroyInterstitialAd()
	return nil
}

func RequestRewardedVideo(adUnitID string, keywords, userDataKeywords string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.RequestRewardedVideo(keywords, userDataKeywords)
	return nil
}

func HasRewardedVideo(adUnitID string) bool {
	b, err := unit(adUnitID)
	if err != nil {
		return false
	}
	return b.HasRewardedVideo()
}

func ShowRewardedVideo(adUnitID string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.ShowRewardedVideo()
	return nil
}

func DestroyRewardedVideo(adUnitID string) error {
	b, err := unit(adUnitID)
	if err != nil {
		return err
	}
	b.DestroyRewardedVideo()
	return nil
}
