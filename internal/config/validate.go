package config

import "fmt"

// Validate checks configuration correctness. It performs declarative
// validation only and MUST NOT mutate the configuration.
func Validate(cfg *Config) error {
	if cfg.Device.Name == "" {
		return fmt.Errorf("device: name must not be empty")
	}
	for i := 0; i < len(cfg.Device.Name); i++ {
		if cfg.Device.Name[i] > 0x7F {
			return fmt.Errorf("device: name must contain ASCII characters only")
		}
	}

	if cfg.Device.Pin < 0 {
		return fmt.Errorf("device: pin %d must not be negative", cfg.Device.Pin)
	}

	// The sensor cannot be sampled more than once every two seconds; a
	// tighter poll would only ever serve cached frames.
	if cfg.Device.PollSeconds < 2 {
		return fmt.Errorf("device: poll_seconds %d must be at least 2", cfg.Device.PollSeconds)
	}
	if cfg.Device.HeartbeatMinutes < 0 {
		return fmt.Errorf("device: heartbeat_minutes %d must not be negative", cfg.Device.HeartbeatMinutes)
	}

	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("mqtt: broker must not be empty")
	}

	if cfg.Alerts.MinC >= cfg.Alerts.MaxC {
		return fmt.Errorf("alerts: min_c %.1f must be below max_c %.1f", cfg.Alerts.MinC, cfg.Alerts.MaxC)
	}
	if cfg.Alerts.MaxFailures < 1 {
		return fmt.Errorf("alerts: max_failures %d must be at least 1", cfg.Alerts.MaxFailures)
	}

	return nil
}
