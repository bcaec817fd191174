package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var collectSkipDB bool

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch one reading and log it to the data directory",
	Long: `Polls the configured Tuya smart meter once, then appends the reading to
the daily CSV, updates the monthly summary, rewrites the latest-reading
snapshot and data README, and archives the reading in the SQLite database.

Intended to be run periodically from cron or a CI workflow.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().BoolVar(&collectSkipDB, "no-db", false, "Skip the SQLite archive (file outputs only)")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Collect started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config and validate credentials before any network or file work
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Connecting to Tuya device %s...\n", cfg.Tuya.DeviceID)

	reading, err := client.FetchReading(context.Background())
	if err != nil {
		return fmt.Errorf("fetching reading: %w", err)
	}

	fmt.Printf("✓ Forward energy total: %v kWh at %s %s UTC\n", reading.KWh, reading.Date, reading.Time)

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening data directory: %w", err)
	}

	if err := store.AppendDaily(reading); err != nil {
		return fmt.Errorf("writing daily log: %w", err)
	}
	fmt.Printf("✓ Logged to %s\n", store.DailyPath(reading.Date))

	if err := store.UpsertMonthly(reading); err != nil {
		return fmt.Errorf("writing monthly summary: %w", err)
	}
	fmt.Printf("✓ Monthly summary updated: %s\n", store.MonthlyPath(reading.Timestamp.Format("2006-01")))

	if err := store.WriteLatest(reading); err != nil {
		return fmt.Errorf("writing latest reading: %w", err)
	}
	fmt.Printf("✓ Latest reading saved: %s\n", store.LatestPath())

	if err := store.WriteReadme(reading.Timestamp); err != nil {
		return fmt.Errorf("writing README: %w", err)
	}

	if !collectSkipDB {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := db.InsertReading(&reading); err != nil {
			return fmt.Errorf("archiving reading: %w", err)
		}
		fmt.Printf("✓ Reading archived in %s\n", getDBPath())
	}

	fmt.Println("\nEnergy logging completed successfully")
	return nil
}
