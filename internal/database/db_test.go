package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jpalmer/tuyalogger/pkg/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertAt(t *testing.T, db *DB, instant time.Time, kwh float64) {
	t.Helper()
	reading := models.NewReading(instant, kwh, nil)
	reading.DeviceID = "dev1"
	if err := db.InsertReading(&reading); err != nil {
		t.Fatalf("InsertReading() unexpected error: %v", err)
	}
}

func TestInsertAndList(t *testing.T) {
	db := newTestDB(t)

	insertAt(t, db, time.Date(2025, 8, 24, 10, 0, 0, 0, time.UTC), 100)
	insertAt(t, db, time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC), 102.5)

	readings, err := db.ListReadings("dev1")
	if err != nil {
		t.Fatalf("ListReadings() unexpected error: %v", err)
	}

	if len(readings) != 2 {
		t.Fatalf("got %d readings want 2", len(readings))
	}
	// Newest first
	if readings[0].KWh != 102.5 || readings[1].KWh != 100 {
		t.Errorf("readings not ordered newest first: %v, %v", readings[0].KWh, readings[1].KWh)
	}
	if readings[0].Date != "2025-08-25" {
		t.Errorf("got date %q want 2025-08-25", readings[0].Date)
	}
}

func TestInsertIgnoresDuplicates(t *testing.T) {
	db := newTestDB(t)

	instant := time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC)
	insertAt(t, db, instant, 100)
	insertAt(t, db, instant, 100)

	readings, err := db.ListReadings("dev1")
	if err != nil {
		t.Fatalf("ListReadings() unexpected error: %v", err)
	}
	if len(readings) != 1 {
		t.Errorf("got %d readings want 1 (duplicate should be ignored)", len(readings))
	}
}

func TestListReadingsFiltersByDevice(t *testing.T) {
	db := newTestDB(t)

	insertAt(t, db, time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC), 100)

	readings, err := db.ListReadings("other-device")
	if err != nil {
		t.Fatalf("ListReadings() unexpected error: %v", err)
	}
	if len(readings) != 0 {
		t.Errorf("got %d readings for other device want 0", len(readings))
	}

	all, err := db.ListReadings("")
	if err != nil {
		t.Fatalf("ListReadings() unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d readings for all devices want 1", len(all))
	}
}

func TestUnpublishedLifecycle(t *testing.T) {
	db := newTestDB(t)

	insertAt(t, db, time.Date(2025, 8, 24, 10, 0, 0, 0, time.UTC), 100)
	insertAt(t, db, time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC), 102.5)

	unpublished, err := db.ListUnpublished("dev1")
	if err != nil {
		t.Fatalf("ListUnpublished() unexpected error: %v", err)
	}
	if len(unpublished) != 2 {
		t.Fatalf("got %d unpublished want 2", len(unpublished))
	}
	// Oldest first for publishing
	if unpublished[0].KWh != 100 {
		t.Errorf("unpublished not ordered oldest first: got %v first", unpublished[0].KWh)
	}

	if err := db.MarkPublished(unpublished[0].ID); err != nil {
		t.Fatalf("MarkPublished() unexpected error: %v", err)
	}

	remaining, err := db.ListUnpublished("dev1")
	if err != nil {
		t.Fatalf("ListUnpublished() unexpected error: %v", err)
	}
	if len(remaining) != 1 || remaining[0].KWh != 102.5 {
		t.Errorf("after MarkPublished got %d unpublished want the single newer reading", len(remaining))
	}
}
