package utils

import (
	"strconv"
	"time"
)

func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	now := time.Now()
	if IsSameDay(t, now) {
		return "Today at " + t.Format("3:04:05 PM")
	}
	yesterday := now.AddDate(0, 0, -1)
	if IsSameDay(t, yesterday) {
		return "Yesterday at " + t.Format("3:04 PM")
	}
	return t.Format("01/02/2006 3:04 PM")
}

func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatCoordinate renders a latitude or longitude with six decimals.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
