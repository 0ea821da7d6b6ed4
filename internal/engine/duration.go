package engine

import (
	"fmt"
	"math"
)

// HumanDuration renders a second count as an approximate natural-language
// duration ("an hour", "3 days"). Thresholds, applied top to bottom on
// the rounded value of the next-larger unit:
//
//	seconds < 45          "a few seconds"
//	seconds < 90          "a minute"
//	minutes < 45          "N minutes"
//	minutes < 90          "an hour"
//	hours   < 22          "N hours"
//	hours   < 36          "a day"
//	days    < 26          "N days"
//	days    < 46          "a month"
//	months  < 11          "N months"
//	years   <= 1          "a year"
//	otherwise             "N years"
//
// Rounding is half-away-from-zero at every unit conversion, so 3600s is
// exactly "an hour" and 90min rounds up to "2 hours".
func HumanDuration(seconds int) string {
	if seconds < 45 {
		return "a few seconds"
	}
	if seconds < 90 {
		return "a minute"
	}

	minutes := round(float64(seconds) / 60)
	if minutes < 45 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	if minutes < 90 {
		return "an hour"
	}

	hours := round(float64(minutes) / 60)
	if hours < 22 {
		return fmt.Sprintf("%d hours", hours)
	}
	if hours < 36 {
		return "a day"
	}

	days := round(float64(hours) / 24)
	if days < 26 {
		return fmt.Sprintf("%d days", days)
	}
	if days < 46 {
		return "a month"
	}

	months := round(float64(days) / 30)
	if months < 11 {
		return fmt.Sprintf("%d months", months)
	}

	years := round(float64(days) / 365)
	if years <= 1 {
		return "a year"
	}
	return fmt.Sprintf("%d years", years)
}

func round(v float64) int {
	return int(math.Round(v))
}
