// Package components renders the devhost pages.
package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/arko-chat/adbridge/components/utils"
	"github.com/arko-chat/adbridge/internal/adbridge"
)

type StatusData struct {
	HostID     string
	BaseURL    string
	Foreground bool
	Pending    int
	Dropped    uint64
	Listeners  int
	Units      []adbridge.Info
}

func StatusPage(data StatusData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta http-equiv="refresh" content="2"><title>adbridge devhost</title></head><body>`)
		b.WriteString(`<h1>adbridge devhost</h1>`)

		fmt.Fprintf(&b, `<p>host <code>%s</code> &middot; %s &middot; %d queued &middot; %d dropped &middot; %d listeners</p>`,
			templ.EscapeString(data.HostID),
			foregroundLabel(data.Foreground),
			data.Pending,
			data.Dropped,
			data.Listeners,
		)
		fmt.Fprintf(&b, `<p><img src="/qr.png" width="128" height="128" alt="%s"></p>`,
			templ.EscapeString(data.BaseURL))

		if len(data.Units) == 0 {
			b.WriteString(`<p>No ad units registered yet.</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>Ad unit</th><th>Banner</th><th>Position</th>`)
			b.WriteString(`<th>Interstitial</th><th>Rewarded</th><th>Autorefresh</th><th>Location</th></tr></thead><tbody>`)
			for _, u := range data.Units {
				writeUnitRow(&b, u)
			}
			b.WriteString(`</tbody></table>`)
		}

		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeUnitRow(b *strings.Builder, u adbridge.Info) {
	banner := u.Banner.String()
	if u.Banner != adbridge.StateUnrequested && !u.BannerVisible {
		banner += " (hidden)"
	}

	location := "off"
	if u.LocationEnabled {
		location = "waiting for fix"
	}
	if loc := u.LastKnownLocation; loc != nil {
		location = fmt.Sprintf("%s, %s at %s",
			utils.FormatCoordinate(loc.Latitude),
			utils.FormatCoordinate(loc.Longitude),
			utils.FormatTimestamp(loc.Timestamp),
		)
		if !u.LocationEnabled {
			location += " (off)"
		}
	}

	fmt.Fprintf(b, `<tr><td><code>%s</code></td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%t</td><td>%s</td></tr>`,
		templ.EscapeString(u.AdUnitID),
		templ.EscapeString(banner),
		u.BannerPosition.String(),
		u.Interstitial.String(),
		u.Rewarded.String(),
		u.Autorefresh,
		templ.EscapeString(location),
	)
}

func foregroundLabel(ready bool) string {
	if ready {
		return "foreground"
	}
	return "paused"
}
