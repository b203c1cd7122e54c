package http

import xutil "PitchDeck/pkg/util"

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

// ParseTimeRange reads optional from/to bounds; unparseable values are ignored.
func ParseTimeRange(from, to string) TimeRange {
	var r TimeRange
	if t, ok := xutil.ParseTime(from); ok {
		r.From = &t
	}
	if t, ok := xutil.ParseTime(to); ok {
		r.To = &t
	}
	return r
}
