package datastore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jpalmer/tuyalogger/pkg/models"
)

// LatestReading is the snapshot written to latest_reading.json
type LatestReading struct {
	Timestamp        string  `json:"timestamp"`
	Date             string  `json:"date"`
	Time             string  `json:"time"`
	KWh              float64 `json:"forward_energy_total_kwh"`
	Hour             int     `json:"hour"`
	DayOfWeek        string  `json:"day_of_week"`
	Unix             int64   `json:"unix_timestamp"`
	FormattedReading string  `json:"formatted_reading"`
}

// LatestPath returns the path of the latest-reading snapshot file
func (s *Store) LatestPath() string {
	return filepath.Join(s.root, "latest_reading.json")
}

// WriteLatest overwrites the snapshot file with the given reading
func (s *Store) WriteLatest(reading models.Reading) error {
	latest := LatestReading{
		Timestamp:        reading.Timestamp.Format(time.RFC3339),
		Date:             reading.Date,
		Time:             reading.Time,
		KWh:              reading.KWh,
		Hour:             reading.Hour,
		DayOfWeek:        reading.DayOfWeek,
		Unix:             reading.Unix,
		FormattedReading: reading.Formatted(),
	}

	data, err := json.MarshalIndent(latest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling latest reading: %w", err)
	}

	if err := os.WriteFile(s.LatestPath(), data, 0644); err != nil {
		return fmt.Errorf("writing latest reading: %w", err)
	}
	return nil
}

// ReadLatest loads the snapshot file
func (s *Store) ReadLatest() (*LatestReading, error) {
	data, err := os.ReadFile(s.LatestPath())
	if err != nil {
		return nil, fmt.Errorf("reading latest reading: %w", err)
	}

	var latest LatestReading
	if err := json.Unmarshal(data, &latest); err != nil {
		return nil, fmt.Errorf("parsing latest reading: %w", err)
	}
	return &latest, nil
}
