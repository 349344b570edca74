// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/shanefarris/dht-sensor/internal/alert"
)

// Topic is the MQTT topic for sensor readings.
const Topic = "home/dht/readings"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/dht/system"

// TopicAlert is the MQTT topic for device-state alerts.
const TopicAlert = "home/dht/alerts"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishReading sends a sensor reading to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishReading(r Reading) error

	// PublishAlert sends a device-state alert to the broker.
	PublishAlert(a AlertEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Reading is one decoded sensor sample with derived values.
type Reading struct {
	Timestamp    time.Time
	TemperatureC float64
	TemperatureF float64
	Humidity     float64
	HeatIndexF   float64
}

// AlertEvent is a device-state transition with its formatted message.
type AlertEvent struct {
	Timestamp time.Time
	State     alert.State
	Subject   string
	Body      string
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// ReadingPayload is the MQTT message payload structure for readings.
type ReadingPayload struct {
	Reading ReadingInner `json:"reading"`
}

// ReadingInner contains the reading details.
type ReadingInner struct {
	Timestamp    string  `json:"timestamp"`
	TemperatureC float64 `json:"temperature_c"`
	TemperatureF float64 `json:"temperature_f"`
	Humidity     float64 `json:"humidity"`
	HeatIndexF   float64 `json:"heat_index_f"`
}

// FormatReadingPayload creates the JSON payload for a sensor reading.
func FormatReadingPayload(r Reading) ([]byte, error) {
	payload := ReadingPayload{
		Reading: ReadingInner{
			Timestamp:    r.Timestamp.UTC().Format(time.RFC3339),
			TemperatureC: r.TemperatureC,
			TemperatureF: r.TemperatureF,
			Humidity:     r.Humidity,
			HeatIndexF:   r.HeatIndexF,
		},
	}
	return json.Marshal(payload)
}

// AlertPayload is the MQTT message payload structure for alerts.
type AlertPayload struct {
	Alert AlertInner `json:"alert"`
}

// AlertInner contains the alert details.
type AlertInner struct {
	Timestamp string `json:"timestamp"`
	State     string `json:"state"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// FormatAlertPayload creates the JSON payload for a device-state alert.
func FormatAlertPayload(a AlertEvent) ([]byte, error) {
	payload := AlertPayload{
		Alert: AlertInner{
			Timestamp: a.Timestamp.UTC().Format(time.RFC3339),
			State:     string(a.State),
			Subject:   a.Subject,
			Body:      a.Body,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
