package timezone

import (
	"testing"
	"time"
)

func TestLocation_FallsBackToDefault(t *testing.T) {
	if got := Location("Not/AZone").String(); got != DefaultTimezone {
		t.Fatalf("expected %s, got %s", DefaultTimezone, got)
	}
	if got := Location("Europe/Zurich").String(); got != "Europe/Zurich" {
		t.Fatalf("expected Europe/Zurich, got %s", got)
	}
}

func TestParseDate_UsesZone(t *testing.T) {
	d, err := ParseDate("2025-03-10", "America/New_York")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Location().String() != "America/New_York" || d.Hour() != 0 || d.Weekday() != time.Monday {
		t.Fatalf("unexpected date %v", d)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := Location("Asia/Tokyo")
	// 20:00 UTC on the 1st is already the 2nd in Tokyo.
	in := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	got := StartOfDay(in, loc)
	want := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
