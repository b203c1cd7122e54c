package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeISODate(t *testing.T) {
	got, ok := ParseTime("2025-03-01")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeOffsetNormalisedToUTC(t *testing.T) {
	got, ok := ParseTime("2025-01-01T02:00:00+02:00")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Format(time.RFC3339) != "2025-01-01T00:00:00Z" {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2025-13-01", "soon", "-5"} {
		if _, ok := ParseTime(s); ok {
			t.Fatalf("expected %q to fail", s)
		}
	}
}

func TestMonthYear(t *testing.T) {
	if got := MonthYear(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)); got != "Jun 2025" {
		t.Fatalf("unexpected %q", got)
	}
	if got := YearStart(2026); got.UnixMilli() != 1767225600000 {
		t.Fatalf("unexpected %d", got.UnixMilli())
	}
}
