package utils

import (
	"testing"
	"time"

	"github.com/CHIBOLAR/Options-chain-prototype/internal/models"
)

func istTime(t *testing.T, weekday time.Weekday, hour, minute int) time.Time {
	t.Helper()
	// 2026-01-05 is a Monday.
	base := time.Date(2026, 1, 5, hour, minute, 0, 0, IndiaLocation)
	return base.AddDate(0, 0, int(weekday-time.Monday))
}

func TestMarketStatusAt(t *testing.T) {
	tests := []struct {
		name    string
		weekday time.Weekday
		hour    int
		minute  int
		want    models.MarketStatus
	}{
		{"pre-open", time.Monday, 9, 5, models.MarketPreOpen},
		{"open at bell", time.Monday, 9, 15, models.MarketOpen},
		{"midday", time.Wednesday, 12, 30, models.MarketOpen},
		{"MIS warning window", time.Friday, 15, 5, models.MarketMISSquareOffWarn},
		{"back to open after warning", time.Friday, 15, 20, models.MarketOpen},
		{"after close", time.Monday, 15, 30, models.MarketClosed},
		{"early morning", time.Tuesday, 7, 0, models.MarketClosed},
		{"saturday", time.Saturday, 12, 0, models.MarketClosed},
		{"sunday", time.Sunday, 12, 0, models.MarketClosed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MarketStatusAt(istTime(t, tc.weekday, tc.hour, tc.minute)); got != tc.want {
				t.Errorf("MarketStatusAt = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNextWeeklyExpiry(t *testing.T) {
	// From a Monday morning the next expiry is that week's Thursday.
	monday := time.Date(2026, 1, 5, 10, 0, 0, 0, IndiaLocation)
	expiry := NextWeeklyExpiry(monday)
	if expiry.Weekday() != time.Thursday {
		t.Fatalf("expiry weekday = %s, want Thursday", expiry.Weekday())
	}
	if expiry.Day() != 8 {
		t.Errorf("expiry day = %d, want 8", expiry.Day())
	}
	if expiry.Hour() != 15 || expiry.Minute() != 30 {
		t.Errorf("expiry time = %02d:%02d, want 15:30", expiry.Hour(), expiry.Minute())
	}

	// From Thursday after the close it rolls to next week.
	late := time.Date(2026, 1, 8, 16, 0, 0, 0, IndiaLocation)
	next := NextWeeklyExpiry(late)
	if next.Day() != 15 {
		t.Errorf("rolled expiry day = %d, want 15", next.Day())
	}
}
