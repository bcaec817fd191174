package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the Tuya OpenAPI endpoint used when none is configured
const DefaultEndpoint = "https://openapi.tuyaeu.com"

// Config holds the application configuration
type Config struct {
	Tuya TuyaConfig `yaml:"tuya"`
	MQTT MQTTConfig `yaml:"mqtt,omitempty"`
}

// TuyaConfig holds Tuya OpenAPI credentials and endpoint
type TuyaConfig struct {
	AccessID  string `yaml:"access_id"`
	AccessKey string `yaml:"access_key"`
	DeviceID  string `yaml:"device_id"`
	Endpoint  string `yaml:"endpoint,omitempty"` // e.g., "https://openapi.tuyaeu.com"
}

// MQTTConfig holds MQTT broker configuration for publishing readings
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// Load reads the config file and applies environment variable overrides.
// Environment variables (TUYA_ACCESS_ID, TUYA_ACCESS_KEY, TUYA_DEVICE_ID,
// TUYA_API_ENDPOINT) take precedence over file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.Tuya.Endpoint == "" {
		cfg.Tuya.Endpoint = DefaultEndpoint
	}

	return cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TUYA_ACCESS_ID")); v != "" {
		cfg.Tuya.AccessID = v
	}
	if v := strings.TrimSpace(os.Getenv("TUYA_ACCESS_KEY")); v != "" {
		cfg.Tuya.AccessKey = v
	}
	if v := strings.TrimSpace(os.Getenv("TUYA_DEVICE_ID")); v != "" {
		cfg.Tuya.DeviceID = v
	}
	if v := strings.TrimSpace(os.Getenv("TUYA_API_ENDPOINT")); v != "" {
		cfg.Tuya.Endpoint = v
	}
}

// Validate checks that all required Tuya credentials are present. It reports
// every missing value in a single error so a misconfigured scheduler run can
// be fixed in one pass.
func (c *Config) Validate() error {
	var missing []string
	if c.Tuya.AccessID == "" {
		missing = append(missing, "TUYA_ACCESS_ID")
	}
	if c.Tuya.AccessKey == "" {
		missing = append(missing, "TUYA_ACCESS_KEY")
	}
	if c.Tuya.DeviceID == "" {
		missing = append(missing, "TUYA_DEVICE_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s (set via environment or config file)", strings.Join(missing, ", "))
	}
	return nil
}

// GetTopicPrefix returns the MQTT topic prefix with a default of "energy_meter"
func (c *MQTTConfig) GetTopicPrefix() string {
	if c.TopicPrefix == "" {
		return "energy_meter"
	}
	return c.TopicPrefix
}
