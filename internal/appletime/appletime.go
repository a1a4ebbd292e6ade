// Package appletime converts the message store's raw timestamps, which
// count nanoseconds since the Apple epoch (2001-01-01T00:00:00 UTC),
// into time.Time values and display strings.
package appletime

import "time"

// Epoch is 2001-01-01T00:00:00 UTC as a Unix timestamp.
const Epoch int64 = 978307200

// NA is the sentinel rendered for a missing or malformed timestamp.
const NA = "N/A"

// Convert turns a raw nanosecond timestamp into a time.Time.
// The zero raw value converts to the epoch itself; callers that need to
// distinguish "absent" should check raw <= 0 first (see FormatDate).
func Convert(raw int64) time.Time {
	return time.Unix(Epoch+raw/1e9, raw%1e9).UTC()
}

// FormatDate renders a raw timestamp as a human-readable calendar date,
// e.g. "January 02, 2006". Zero or negative raw values render as NA
// rather than a misleading 2001 date.
func FormatDate(raw int64) string {
	if raw <= 0 {
		return NA
	}
	return Convert(raw).Format("January 02, 2006")
}

// DaysBetween returns the number of whole days from first to last,
// truncating partial days. Returns 0 when last precedes first.
func DaysBetween(first, last time.Time) int {
	if last.Before(first) {
		return 0
	}
	return int(last.Sub(first).Hours() / 24)
}
