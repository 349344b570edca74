// Package config loads and validates the daemon's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level daemon configuration.
type Config struct {
	Device DeviceConfig `yaml:"device"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	HTTP   HTTPConfig   `yaml:"http"`
	Alerts AlertsConfig `yaml:"alerts"`
}

// DeviceConfig describes the sensor wiring and sampling cadence.
type DeviceConfig struct {
	Name             string `yaml:"name"`
	Chip             string `yaml:"chip"`
	Pin              int    `yaml:"pin"`
	PollSeconds      int    `yaml:"poll_seconds"`
	HeartbeatMinutes int    `yaml:"heartbeat_minutes"`
}

// MQTTConfig describes the broker connection.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// HTTPConfig describes the status server.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables the HTTP server
}

// AlertsConfig describes the temperature range and disconnect escalation.
type AlertsConfig struct {
	MinC        float64 `yaml:"min_c"`
	MaxC        float64 `yaml:"max_c"`
	MaxFailures int     `yaml:"max_failures"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			Name:             "dht-sensor",
			Chip:             "gpiochip0",
			Pin:              4,
			PollSeconds:      30,
			HeartbeatMinutes: 15,
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://192.168.1.200:1883",
			ClientID: "dht-sensor",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Alerts: AlertsConfig{
			MinC:        5,
			MaxC:        35,
			MaxFailures: 5,
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// normalize fills gaps a partial config file leaves behind.
// It never rejects anything; that is Validate's job.
func normalize(cfg *Config) {
	def := Default()
	if cfg.Device.Chip == "" {
		cfg.Device.Chip = def.Device.Chip
	}
	if cfg.Device.PollSeconds == 0 {
		cfg.Device.PollSeconds = def.Device.PollSeconds
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = def.MQTT.ClientID
	}
	if cfg.Alerts.MaxFailures == 0 {
		cfg.Alerts.MaxFailures = def.Alerts.MaxFailures
	}
}
