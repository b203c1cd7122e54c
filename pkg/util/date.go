package util

import (
	"strconv"
	"time"
)

const isoDate = "2006-01-02"

// ParseTime tries ISO dates, RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
// Results are in UTC.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(isoDate, s, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// MonthYear renders t as "Jan 2025".
func MonthYear(t time.Time) string {
	return t.UTC().Format("Jan 2006")
}

// YearStart returns midnight UTC on January 1st of year.
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}
