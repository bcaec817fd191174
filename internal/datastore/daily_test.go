package datastore

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jpalmer/tuyalogger/pkg/models"
)

func testReading(t *testing.T, instant time.Time, kwh float64) models.Reading {
	t.Helper()
	return models.NewReading(instant, kwh, nil)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return store
}

func TestAppendDailyCreatesFileWithHeader(t *testing.T) {
	store := newTestStore(t)
	reading := testReading(t, time.Date(2025, 8, 25, 14, 30, 5, 0, time.UTC), 250.07)

	if err := store.AppendDaily(reading); err != nil {
		t.Fatalf("AppendDaily() unexpected error: %v", err)
	}

	data, err := os.ReadFile(store.DailyPath("2025-08-25"))
	if err != nil {
		t.Fatalf("reading daily file: %v", err)
	}

	want := "timestamp,date,time,forward_energy_total_kwh,hour,day_of_week,unix_timestamp\n" +
		"2025-08-25 14:30:05 UTC,2025-08-25,14:30:05,250.07,14,Monday,1756132205\n"
	if diff := cmp.Diff(string(data), want); diff != "" {
		t.Errorf("daily file unexpected diff %v", diff)
	}
}

func TestAppendDailyTwiceKeepsSingleHeader(t *testing.T) {
	store := newTestStore(t)
	first := testReading(t, time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC), 100.5)
	second := testReading(t, time.Date(2025, 8, 25, 11, 0, 0, 0, time.UTC), 101.25)

	if err := store.AppendDaily(first); err != nil {
		t.Fatalf("AppendDaily() unexpected error: %v", err)
	}
	if err := store.AppendDaily(second); err != nil {
		t.Fatalf("AppendDaily() unexpected error: %v", err)
	}

	data, err := os.ReadFile(store.DailyPath("2025-08-25"))
	if err != nil {
		t.Fatalf("reading daily file: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines want 3 (header + 2 rows):\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "timestamp,") {
		t.Errorf("first line is not the header: %q", lines[0])
	}
	if !strings.Contains(lines[1], ",100.5,") {
		t.Errorf("first data row lost insertion order: %q", lines[1])
	}
	if !strings.Contains(lines[2], ",101.25,") {
		t.Errorf("second data row lost insertion order: %q", lines[2])
	}
}
