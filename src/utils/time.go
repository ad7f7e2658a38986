package utils

import "time"

func GetMinTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}

	return b
}

func GetMaxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}

	return b
}

// NormalizeDate truncates a timestamp to midnight in its own location.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysToExpiry counts whole days from now (normalized to midnight) until the
// expiration date. Expired contracts clamp to 0.
func DaysToExpiry(expiration time.Time, now time.Time) int {
	days := int(NormalizeDate(expiration).Sub(NormalizeDate(now)).Hours() / 24)
	if days < 0 {
		return 0
	}

	return days
}
