package expiry

import (
	"fmt"
	"time"
)

// NoExpiryInfo is shown for items without a usable expiry date.
const NoExpiryInfo = "No expiry info"

// FormatCountdown renders the exact time remaining until expiry as
// "{d}d {h}h {m}m left", or "Expired" once the calendar-day rule in Classify
// says so. The duration is not day-normalized, so it is finer grained than
// DaysLeft and clamps to zero when the instant has passed but the day has not.
func FormatCountdown(expiry *time.Time, now time.Time) string {
	days, ok := DaysLeft(expiry, now)
	if !ok {
		return NoExpiryInfo
	}
	if days <= 0 {
		return "Expired"
	}

	diff := expiry.Sub(now)
	if diff < 0 {
		diff = 0
	}

	dd := diff / day
	diff -= dd * day
	hh := diff / time.Hour
	diff -= hh * time.Hour
	mm := diff / time.Minute

	return fmt.Sprintf("%dd %dh %dm left", dd, hh, mm)
}
