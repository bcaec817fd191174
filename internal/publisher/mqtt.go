package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jpalmer/tuyalogger/internal/config"
	"github.com/jpalmer/tuyalogger/pkg/models"
)

// Publisher sends readings to an MQTT broker
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// New creates a publisher and connects to the configured broker
func New(cfg config.MQTTConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("tuyalogger")
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:      client,
		topicPrefix: cfg.GetTopicPrefix(),
	}, nil
}

// payload is the JSON message published per reading
type payload struct {
	Timestamp string  `json:"timestamp"`
	Date      string  `json:"date"`
	KWh       float64 `json:"forward_energy_total_kwh"`
	DeviceID  string  `json:"device_id"`
}

// Publish sends one reading to <prefix>/<device_id>/reading with QoS 1
func (p *Publisher) Publish(reading models.Reading) error {
	body, err := json.Marshal(payload{
		Timestamp: reading.Timestamp.Format(time.RFC3339),
		Date:      reading.Date,
		KWh:       reading.KWh,
		DeviceID:  reading.DeviceID,
	})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	topic := fmt.Sprintf("%s/%s/reading", p.topicPrefix, reading.DeviceID)
	token := p.client.Publish(topic, 1, true, body)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
