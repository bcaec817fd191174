package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show all datapoints reported by the device",
	Long:  `Fetches the current device status and prints every datapoint code and value. Useful for finding out what the meter actually reports.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	points, err := client.DeviceStatus(context.Background())
	if err != nil {
		return fmt.Errorf("fetching device status: %w", err)
	}

	if len(points) == 0 {
		fmt.Println("Device reported no datapoints")
		return nil
	}

	codes := make([]string, 0, len(points))
	for code := range points {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fmt.Printf("Device %s datapoints:\n", cfg.Tuya.DeviceID)
	fmt.Println("----------------------------------------")
	for _, code := range codes {
		fmt.Printf("%-32s  %v\n", code, points[code])
	}

	return nil
}
