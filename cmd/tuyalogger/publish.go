package main

import (
	"fmt"
	"time"

	"github.com/jpalmer/tuyalogger/internal/publisher"
	"github.com/jpalmer/tuyalogger/pkg/models"
	"github.com/spf13/cobra"
)

var (
	publishSince string
	publishAll   bool
	publishLimit int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish archived readings to MQTT",
	Long:  `Reads archived readings from the database and publishes them to the configured MQTT broker. Already-published readings are skipped unless --all is given.`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSince, "since", "", "Only publish readings since this date (YYYY-MM-DD or relative like 7d)")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all readings (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of readings to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	pub, err := publisher.New(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var readings []models.Reading
	if publishAll {
		readings, err = db.ListReadings(cfg.Tuya.DeviceID)
	} else {
		readings, err = db.ListUnpublished(cfg.Tuya.DeviceID)
	}
	if err != nil {
		return fmt.Errorf("listing readings: %w", err)
	}

	if publishSince != "" {
		since, err := parseDate(publishSince)
		if err != nil {
			return fmt.Errorf("parsing --since date: %w", err)
		}
		filtered := readings[:0]
		for _, reading := range readings {
			if !reading.Timestamp.Before(since) {
				filtered = append(filtered, reading)
			}
		}
		readings = filtered
	}

	if len(readings) == 0 {
		if publishAll {
			fmt.Println("No readings found")
		} else {
			fmt.Println("No unpublished readings found")
		}
		return nil
	}

	if publishLimit > 0 && len(readings) > publishLimit {
		readings = readings[:publishLimit]
		fmt.Printf("Limiting to %d readings (--limit flag)\n", publishLimit)
	}

	fmt.Printf("Publishing %d readings...\n", len(readings))
	published := 0
	for i, reading := range readings {
		fmt.Printf("[%d/%d] Publishing %s (%.2f kWh)... ", i+1, len(readings), reading.Timestamp.Format("2006-01-02 15:04"), reading.KWh)
		if err := pub.Publish(reading); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		if err := db.MarkPublished(reading.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nSuccessfully published %d/%d readings\n", published, len(readings))
	return nil
}

// parseDate parses a date string in either YYYY-MM-DD format or relative format (e.g., "7d")
func parseDate(dateStr string) (time.Time, error) {
	// Try absolute date format first
	t, err := time.Parse("2006-01-02", dateStr)
	if err == nil {
		return t, nil
	}

	// Try relative format (e.g., "7d" for 7 days ago)
	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		daysStr := dateStr[:len(dateStr)-1]
		var days int
		if _, err := fmt.Sscanf(daysStr, "%d", &days); err == nil {
			return time.Now().AddDate(0, 0, -days), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD or Nd for N days ago)", dateStr)
}
