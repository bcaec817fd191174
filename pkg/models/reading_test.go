package models

import (
	"testing"
	"time"
)

func TestNewReadingDerivedFields(t *testing.T) {
	// Non-UTC input must be normalized to UTC before deriving fields
	loc := time.FixedZone("CEST", 2*60*60)
	instant := time.Date(2025, 8, 25, 16, 30, 5, 0, loc)

	r := NewReading(instant, 250.07, map[string]any{"phase_a": 1})

	if r.Date != "2025-08-25" {
		t.Errorf("got date %q want 2025-08-25", r.Date)
	}
	if r.Time != "14:30:05" {
		t.Errorf("got time %q want 14:30:05 (UTC)", r.Time)
	}
	if r.Hour != 14 {
		t.Errorf("got hour %d want 14", r.Hour)
	}
	if r.DayOfWeek != "Monday" {
		t.Errorf("got day %q want Monday", r.DayOfWeek)
	}
	if r.Unix != 1756132205 {
		t.Errorf("got unix %d want 1756132205", r.Unix)
	}
	if r.KWh != 250.07 {
		t.Errorf("got kwh %v want 250.07", r.KWh)
	}
	if r.Raw["phase_a"] != 1 {
		t.Errorf("raw datapoints not carried through")
	}
}

func TestFormatted(t *testing.T) {
	r := NewReading(time.Date(2025, 8, 25, 14, 30, 5, 0, time.UTC), 250.07, nil)
	want := "250.07 kWh at 2025-08-25 14:30:05 UTC"
	if got := r.Formatted(); got != want {
		t.Errorf("Formatted() = %q, want %q", got, want)
	}
}
