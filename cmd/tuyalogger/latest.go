package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent logged reading",
	Long:  `Reads the latest-reading snapshot from the data directory and prints it.`,
	RunE:  runLatest,
}

func init() {
	rootCmd.AddCommand(latestCmd)
}

func runLatest(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening data directory: %w", err)
	}

	latest, err := store.ReadLatest()
	if err != nil {
		return fmt.Errorf("no reading logged yet: %w", err)
	}

	fmt.Printf("Latest reading: %s\n", latest.FormattedReading)

	if ts, err := time.Parse(time.RFC3339, latest.Timestamp); err == nil {
		fmt.Printf("Recorded %s\n", humanize.Time(ts))
	}

	return nil
}
