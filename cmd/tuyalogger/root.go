package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jpalmer/tuyalogger/internal/config"
	"github.com/jpalmer/tuyalogger/internal/database"
	"github.com/jpalmer/tuyalogger/internal/datastore"
	"github.com/jpalmer/tuyalogger/internal/tuya"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dbPath  string
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "tuyalogger",
	Short: "Log energy readings from a Tuya smart meter",
	Long: `Tuyalogger polls a Tuya smart meter through the Tuya OpenAPI cloud and
logs the cumulative energy counter to CSV files, a JSON snapshot, and a
local SQLite archive. Run 'collect' periodically from an external scheduler.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default is ./data)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// getDataDir returns the data directory path (local directory)
func getDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	return "data"
}

// loadConfig loads the configuration file with environment overrides
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// openStore opens the data directory, seeding it if absent
func openStore() (*datastore.Store, error) {
	return datastore.New(getDataDir())
}

// newClient builds a Tuya API client from validated config
func newClient(cfg *config.Config) (*tuya.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return tuya.NewClient(cfg.Tuya.Endpoint, cfg.Tuya.AccessID, cfg.Tuya.AccessKey, cfg.Tuya.DeviceID), nil
}
