package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listDevice string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived readings",
	Long:  `Displays all readings stored in the SQLite archive, newest first.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listDevice, "device", "", "Filter by device ID")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	readings, err := db.ListReadings(listDevice)
	if err != nil {
		return fmt.Errorf("listing readings: %w", err)
	}

	if len(readings) == 0 {
		fmt.Println("No readings found")
		return nil
	}

	fmt.Println("\nArchived Readings:")
	fmt.Println("--------------------------------------------------")
	fmt.Printf("%-20s  %12s\n", "Recorded (UTC)", "kWh")
	fmt.Println("--------------------------------------------------")

	for _, reading := range readings {
		fmt.Printf("%-20s  %12.2f\n", reading.Timestamp.Format("2006-01-02 15:04:05"), reading.KWh)
	}

	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total: %s readings\n", humanize.Comma(int64(len(readings))))

	return nil
}
