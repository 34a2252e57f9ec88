package expiry

import (
	"testing"
	"time"
)

func TestFormatCountdown(t *testing.T) {
	minus5 := time.FixedZone("UTC-5", -5*60*60)
	eveningExpiry := time.Date(2024, time.June, 15, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry *time.Time
		now    time.Time
		want   string
	}{
		{
			name:   "no expiry",
			expiry: nil,
			now:    time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			want:   NoExpiryInfo,
		},
		{
			name:   "expires today",
			expiry: date(2024, time.June, 10),
			now:    time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			want:   "Expired",
		},
		{
			name:   "expired last week",
			expiry: date(2024, time.June, 3),
			now:    time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC),
			want:   "Expired",
		},
		{
			name:   "exact days",
			expiry: date(2024, time.June, 15),
			now:    time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			want:   "5d 0h 0m left",
		},
		{
			name:   "floors each unit",
			expiry: date(2024, time.June, 15),
			now:    time.Date(2024, time.June, 10, 13, 29, 30, 0, time.UTC),
			want:   "4d 10h 30m left",
		},
		{
			name:   "last minute before tomorrow",
			expiry: date(2024, time.June, 11),
			now:    time.Date(2024, time.June, 10, 23, 59, 30, 0, time.UTC),
			want:   "0d 0h 0m left",
		},
		{
			name:   "keeps time of day",
			expiry: &eveningExpiry,
			now:    time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			want:   "5d 18h 0m left",
		},
		{
			name:   "bare date seen from another zone",
			expiry: date(2024, time.June, 15),
			now:    time.Date(2024, time.June, 10, 0, 0, 0, 0, minus5),
			want:   "4d 19h 0m left",
		},
		{
			name:   "instant passed but day not over",
			expiry: date(2024, time.June, 11),
			now:    time.Date(2024, time.June, 10, 20, 0, 0, 0, minus5),
			want:   "0d 0h 0m left",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCountdown(tt.expiry, tt.now); got != tt.want {
				t.Errorf("FormatCountdown() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestFormatCountdown_AgreesWithClassify(t *testing.T) {
	now := time.Date(2024, time.June, 10, 17, 45, 0, 0, time.UTC)
	for offset := -5; offset <= 10; offset++ {
		exp := now.AddDate(0, 0, offset)
		expired := Classify(&exp, now, 7).State == Expired
		if got := FormatCountdown(&exp, now); (got == "Expired") != expired {
			t.Errorf("offset %d: countdown %q disagrees with classification (expired=%v)", offset, got, expired)
		}
	}
}
