package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jpalmer/tuyalogger/pkg/models"
	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at TEXT NOT NULL,
		date TEXT NOT NULL,
		kwh REAL NOT NULL,
		device_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0,
		UNIQUE(recorded_at, device_id)
	);
	CREATE INDEX IF NOT EXISTS idx_readings_date ON readings(date);
	CREATE INDEX IF NOT EXISTS idx_readings_device ON readings(device_id);
	CREATE INDEX IF NOT EXISTS idx_readings_published ON readings(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertReading inserts a reading, ignoring duplicates
func (db *DB) InsertReading(reading *models.Reading) error {
	query := `
	INSERT OR IGNORE INTO readings (recorded_at, date, kwh, device_id, created_at)
	VALUES (?, ?, ?, ?, ?)
	`

	recordedAt := reading.Timestamp.UTC().Format("2006-01-02 15:04:05")
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err := db.conn.Exec(query, recordedAt, reading.Date, reading.KWh, reading.DeviceID, createdAt)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}

	return nil
}

// ListReadings retrieves all readings for a device, newest first. An empty
// device ID matches all devices.
func (db *DB) ListReadings(deviceID string) ([]models.Reading, error) {
	query := `
	SELECT id, recorded_at, date, kwh, device_id
	FROM readings
	WHERE (? = '' OR device_id = ?)
	ORDER BY recorded_at DESC
	`

	rows, err := db.conn.Query(query, deviceID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// ListUnpublished retrieves all unpublished readings, oldest first so
// downstream consumers see them in reading order
func (db *DB) ListUnpublished(deviceID string) ([]models.Reading, error) {
	query := `
	SELECT id, recorded_at, date, kwh, device_id
	FROM readings
	WHERE published = 0 AND (? = '' OR device_id = ?)
	ORDER BY recorded_at ASC
	`

	rows, err := db.conn.Query(query, deviceID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("querying unpublished readings: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// MarkPublished marks a reading as published
func (db *DB) MarkPublished(id int) error {
	query := `UPDATE readings SET published = 1 WHERE id = ?`
	if _, err := db.conn.Exec(query, id); err != nil {
		return fmt.Errorf("marking reading as published: %w", err)
	}
	return nil
}

func scanReadings(rows *sql.Rows) ([]models.Reading, error) {
	var results []models.Reading
	for rows.Next() {
		var (
			id            int
			recordedAtStr string
			date          string
			kwh           float64
			deviceID      string
		)

		if err := rows.Scan(&id, &recordedAtStr, &date, &kwh, &deviceID); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		recordedAt, err := time.ParseInLocation("2006-01-02 15:04:05", recordedAtStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}

		reading := models.NewReading(recordedAt, kwh, nil)
		reading.ID = id
		reading.DeviceID = deviceID
		results = append(results, reading)
	}

	return results, rows.Err()
}
