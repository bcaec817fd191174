// Package datastore writes meter readings to the on-disk data directory:
// append-only daily CSVs, an upserted monthly summary CSV, a latest-reading
// JSON snapshot, and a generated README describing the layout.
package datastore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// timestampLayout matches the historical CSV format: "2006-01-02 15:04:05 UTC"
const timestampLayout = "2006-01-02 15:04:05 UTC"

// Store manages the data directory tree
type Store struct {
	root string
}

// New creates a Store rooted at dir and seeds the directory tree
func New(dir string) (*Store, error) {
	s := &Store{root: dir}
	for _, d := range []string{s.root, s.DailyDir(), s.MonthlyDir()} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	return s, nil
}

// Root returns the data directory root
func (s *Store) Root() string {
	return s.root
}

// DailyDir returns the directory holding per-day CSV files
func (s *Store) DailyDir() string {
	return filepath.Join(s.root, "daily")
}

// MonthlyDir returns the directory holding monthly summary CSV files
func (s *Store) MonthlyDir() string {
	return filepath.Join(s.root, "monthly")
}

// formatKWh renders a kWh value without trailing zeros (250.07 not 250.070000)
func formatKWh(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
