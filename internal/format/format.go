// Package format renders counts and timestamps into the display pairs used
// throughout the normalized records.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	absoluteLayout = "Jan 02 2006, 15:04:05 UTC"
	shortLayout    = "Jan 02 '06"

	// relativeCutoff is the distance after which a relative time is shown as
	// a short date instead.
	relativeCutoff = 30 * 24 * time.Hour

	// maxUnixSeconds is 9999-12-31T23:59:59Z.
	maxUnixSeconds = 253402300799
)

// Count returns an abbreviated and an exact rendering of n. Values of at
// least a thousand (or a million) in magnitude are shortened to one decimal
// place with a "k" (or "m") suffix.
func Count(n int64) (abbreviated, exact string) {
	exact = strconv.FormatInt(n, 10)
	switch {
	case n >= 1_000_000 || n <= -1_000_000:
		abbreviated = fmt.Sprintf("%.1fm", float64(n)/1_000_000)
	case n >= 1000 || n <= -1000:
		abbreviated = fmt.Sprintf("%.1fk", float64(n)/1000)
	default:
		abbreviated = exact
	}
	return abbreviated, exact
}

// Time returns the relative and absolute renderings of a UNIX timestamp in
// seconds, measured against the current time.
func Time(unixSeconds float64) (relative, absolute string) {
	return TimeAt(unixSeconds, time.Now())
}

// TimeAt is Time measured against now. Timestamps that are not finite or
// fall outside the representable calendar range are treated as the epoch.
func TimeAt(unixSeconds float64, now time.Time) (relative, absolute string) {
	t := FromUnix(unixSeconds)
	now = now.UTC()

	delta := now.Sub(t)
	if delta < 0 {
		delta = -delta
	}

	if delta > relativeCutoff {
		relative = t.Format(shortLayout)
	} else {
		switch {
		case delta >= 24*time.Hour:
			relative = fmt.Sprintf("%dd", int64(delta/(24*time.Hour)))
		case delta >= time.Hour:
			relative = fmt.Sprintf("%dh", int64(delta/time.Hour))
		default:
			relative = fmt.Sprintf("%dm", int64(delta/time.Minute))
		}
		if now.Before(t) {
			relative += " left"
		} else {
			relative += " ago"
		}
	}

	return relative, t.Format(absoluteLayout)
}

// ShortDate renders a UNIX timestamp as "Jan 02 '06".
func ShortDate(unixSeconds float64) string {
	return FromUnix(unixSeconds).Format(shortLayout)
}

// FromUnix converts fractional UNIX seconds to a UTC time, rounding to the
// nearest second. Invalid input yields the epoch.
func FromUnix(unixSeconds float64) time.Time {
	if math.IsNaN(unixSeconds) || math.IsInf(unixSeconds, 0) {
		return time.Unix(0, 0).UTC()
	}
	secs := math.Round(unixSeconds)
	if secs > maxUnixSeconds || secs < -maxUnixSeconds {
		return time.Unix(0, 0).UTC()
	}
	return time.Unix(int64(secs), 0).UTC()
}
