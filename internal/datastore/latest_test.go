package datastore

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWriteLatestOverwrites(t *testing.T) {
	store := newTestStore(t)

	first := testReading(t, time.Date(2025, 8, 24, 10, 0, 0, 0, time.UTC), 100)
	second := testReading(t, time.Date(2025, 8, 25, 14, 30, 5, 0, time.UTC), 250.07)

	if err := store.WriteLatest(first); err != nil {
		t.Fatalf("WriteLatest() unexpected error: %v", err)
	}
	if err := store.WriteLatest(second); err != nil {
		t.Fatalf("WriteLatest() unexpected error: %v", err)
	}

	got, err := store.ReadLatest()
	if err != nil {
		t.Fatalf("ReadLatest() unexpected error: %v", err)
	}

	want := &LatestReading{
		Timestamp:        "2025-08-25T14:30:05Z",
		Date:             "2025-08-25",
		Time:             "14:30:05",
		KWh:              250.07,
		Hour:             14,
		DayOfWeek:        "Monday",
		Unix:             1756132205,
		FormattedReading: "250.07 kWh at 2025-08-25 14:30:05 UTC",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("ReadLatest() unexpected diff %v", diff)
	}
}

func TestWriteReadmeStampsUpdateTime(t *testing.T) {
	store := newTestStore(t)

	updatedAt := time.Date(2025, 8, 25, 14, 30, 5, 0, time.UTC)
	if err := store.WriteReadme(updatedAt); err != nil {
		t.Fatalf("WriteReadme() unexpected error: %v", err)
	}

	raw, err := os.ReadFile(store.ReadmePath())
	if err != nil {
		t.Fatalf("reading README: %v", err)
	}
	data := string(raw)

	if !strings.HasPrefix(data, "# Energy Data") {
		t.Errorf("README missing title, starts with %q", data[:min(40, len(data))])
	}
	if !strings.Contains(data, "Last updated: 2025-08-25 14:30:05 UTC") {
		t.Errorf("README missing update timestamp")
	}
}
