package models

import (
	"fmt"
	"time"
)

// Reading represents a single energy reading from the smart meter
type Reading struct {
	ID        int            `json:"id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`            // Read time in UTC
	KWh       float64        `json:"forward_energy_total"` // Cumulative counter in kWh
	Date      string         `json:"date"`                 // YYYY-MM-DD
	Time      string         `json:"time"`                 // HH:MM:SS
	Hour      int            `json:"hour"`
	DayOfWeek string         `json:"day_of_week"` // Day name (Monday, Tuesday, etc.)
	Unix      int64          `json:"unix_timestamp"`
	DeviceID  string         `json:"device_id,omitempty"`
	Raw       map[string]any `json:"-"` // All other datapoints from the device
}

// NewReading builds a Reading with all calendar fields derived from the instant
func NewReading(instant time.Time, kwh float64, raw map[string]any) Reading {
	utc := instant.UTC()
	return Reading{
		Timestamp: utc,
		KWh:       kwh,
		Date:      utc.Format("2006-01-02"),
		Time:      utc.Format("15:04:05"),
		Hour:      utc.Hour(),
		DayOfWeek: utc.Weekday().String(),
		Unix:      utc.Unix(),
		Raw:       raw,
	}
}

// Formatted returns the reading as a human-readable string
func (r Reading) Formatted() string {
	return fmt.Sprintf("%v kWh at %s %s UTC", r.KWh, r.Date, r.Time)
}
