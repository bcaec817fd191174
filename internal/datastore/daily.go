package datastore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jpalmer/tuyalogger/pkg/models"
)

var dailyHeader = []string{
	"timestamp",
	"date",
	"time",
	"forward_energy_total_kwh",
	"hour",
	"day_of_week",
	"unix_timestamp",
}

// DailyPath returns the daily CSV path for a date string (YYYY-MM-DD)
func (s *Store) DailyPath(date string) string {
	return filepath.Join(s.DailyDir(), fmt.Sprintf("energy_%s.csv", date))
}

// AppendDaily appends one reading row to the day's CSV file, creating the
// file with a header row first if it does not exist yet
func (s *Store) AppendDaily(reading models.Reading) error {
	path := s.DailyPath(reading.Date)

	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening daily file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(dailyHeader); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	row := []string{
		reading.Timestamp.Format(timestampLayout),
		reading.Date,
		reading.Time,
		formatKWh(reading.KWh),
		strconv.Itoa(reading.Hour),
		reading.DayOfWeek,
		strconv.FormatInt(reading.Unix, 10),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing daily file: %w", err)
	}
	return nil
}
