package datastore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/jpalmer/tuyalogger/pkg/models"
)

var monthlyHeader = []string{
	"date",
	"day_of_week",
	"latest_reading_kwh",
	"last_updated",
	"readings_count",
}

// MonthlyRow is one summary line: the latest reading seen for a date
type MonthlyRow struct {
	Date          string
	DayOfWeek     string
	LatestKWh     string
	LastUpdated   string
	ReadingsCount int
}

// MonthlyPath returns the summary CSV path for a year-month string (YYYY-MM)
func (s *Store) MonthlyPath(yearMonth string) string {
	return filepath.Join(s.MonthlyDir(), fmt.Sprintf("energy_summary_%s.csv", yearMonth))
}

// UpsertMonthly replaces or inserts the summary row for the reading's date,
// keeping at most one row per date, sorted ascending. The file is rewritten
// through a temp file and renamed into place so a failure mid-write cannot
// leave a truncated summary behind.
func (s *Store) UpsertMonthly(reading models.Reading) error {
	path := s.MonthlyPath(reading.Timestamp.Format("2006-01"))

	rows, err := loadMonthly(path)
	if err != nil {
		return err
	}

	count := 1
	if prev, ok := rows[reading.Date]; ok {
		count = prev.ReadingsCount + 1
	}
	rows[reading.Date] = MonthlyRow{
		Date:          reading.Date,
		DayOfWeek:     reading.DayOfWeek,
		LatestKWh:     formatKWh(reading.KWh),
		LastUpdated:   reading.Timestamp.Format(timestampLayout),
		ReadingsCount: count,
	}

	return writeMonthly(path, rows)
}

// loadMonthly reads the summary file into a map keyed by date. A missing
// file yields an empty map.
func loadMonthly(path string) (map[string]MonthlyRow, error) {
	rows := make(map[string]MonthlyRow)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rows, nil
		}
		return nil, fmt.Errorf("opening monthly file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading monthly file: %w", err)
	}

	for i, record := range records {
		if i == 0 || len(record) < 5 {
			continue // header
		}
		count, err := strconv.Atoi(record[4])
		if err != nil {
			count = 1
		}
		rows[record[0]] = MonthlyRow{
			Date:          record[0],
			DayOfWeek:     record[1],
			LatestKWh:     record[2],
			LastUpdated:   record[3],
			ReadingsCount: count,
		}
	}

	return rows, nil
}

// writeMonthly rewrites the full summary file, sorted by date ascending
func writeMonthly(path string, rows map[string]MonthlyRow) error {
	dates := make([]string, 0, len(rows))
	for date := range rows {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(monthlyHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	for _, date := range dates {
		row := rows[date]
		record := []string{
			row.Date,
			row.DayOfWeek,
			row.LatestKWh,
			row.LastUpdated,
			strconv.Itoa(row.ReadingsCount),
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing monthly file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing monthly file: %w", err)
	}
	return nil
}
