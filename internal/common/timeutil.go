package common

import "time"

// ConvertUTCToLocal shifts a UTC epoch timestamp into the forecast location's
// wall-clock time using the provider-reported offset in seconds.
func ConvertUTCToLocal(utcTimestamp, offsetSeconds int64) int64 {
	return utcTimestamp + offsetSeconds
}

// HumanReadable formats an already-localized epoch timestamp.
func HumanReadable(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05")
}

// HourMinute formats an already-localized epoch timestamp as HH:MM.
func HourMinute(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("15:04")
}

// SameCalendarDay reports whether two already-localized epoch timestamps fall
// on the same calendar day.
func SameCalendarDay(a, b int64) bool {
	ta := time.Unix(a, 0).UTC()
	tb := time.Unix(b, 0).UTC()
	ya, ma, da := ta.Date()
	yb, mb, db := tb.Date()
	return ya == yb && ma == mb && da == db
}
