// Package expiry classifies food items by how close they are to their expiry
// date and formats the remaining time for display.
//
// Every function here is pure: the reference instant is always passed in, so
// results are deterministic and safe for concurrent use.
package expiry

import (
	"time"
)

// DefaultSoonThresholdDays is used when a non-positive threshold is supplied.
const DefaultSoonThresholdDays = 7

const day = 24 * time.Hour

// State is the expiry state of a single item.
type State int

const (
	// Unknown means the item carries no usable expiry date.
	Unknown State = iota
	// Fresh items expire more than the threshold away.
	Fresh
	// ExpiringSoon items expire within the threshold, starting tomorrow.
	ExpiringSoon
	// Expired items expire today or earlier.
	Expired
)

// String returns the display name of s.
func (s State) String() string {
	switch s {
	case Fresh:
		return "Fresh"
	case ExpiringSoon:
		return "Expiring soon"
	case Expired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// Classification is the result of Classify. DaysLeft is nil for Unknown.
type Classification struct {
	DaysLeft *int
	State    State
}

// civil strips the time of day from t, keeping t's own calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysLeft returns the signed number of calendar days from now until expiry.
// ok is false when expiry is nil.
func DaysLeft(expiry *time.Time, now time.Time) (int, bool) {
	if expiry == nil || expiry.IsZero() {
		return 0, false
	}
	// Both dates are UTC midnights, so the difference is a whole number of days.
	// Unix seconds do not saturate the way time.Duration does past ~292 years.
	secs := civil(*expiry).Unix() - civil(now).Unix()
	return int(secs / int64(day/time.Second)), true
}

// Classify assigns an expiry state to an item expiring on expiry, as seen at now.
// A day count of zero or less is Expired; one up to soonThresholdDays
// (inclusive) is ExpiringSoon; anything further is Fresh.
func Classify(expiry *time.Time, now time.Time, soonThresholdDays int) Classification {
	days, ok := DaysLeft(expiry, now)
	if !ok {
		return Classification{State: Unknown}
	}
	if soonThresholdDays <= 0 {
		soonThresholdDays = DefaultSoonThresholdDays
	}

	c := Classification{DaysLeft: &days}
	switch {
	case days <= 0:
		c.State = Expired
	case days <= soonThresholdDays:
		c.State = ExpiringSoon
	default:
		c.State = Fresh
	}
	return c
}
