// Package alert contains pure logic for turning sensor readings into
// device-state transitions and human-readable alert messages.
// This package has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package alert

import "time"

// State represents the device state an alert reports.
type State string

const (
	StateOnline       State = "ONLINE"
	StateOffline      State = "OFFLINE"
	StateMaxRange     State = "MAX_RANGE"
	StateMinRange     State = "MIN_RANGE"
	StateDisconnected State = "DISCONNECTED"
)

// Config carries the formatter's configuration. It is passed explicitly at
// call time; there is no process-wide device registry.
type Config struct {
	// DeviceName identifies the sensor in subjects and bodies.
	DeviceName string
}

// Event represents a device-state transition to be published.
type Event struct {
	Timestamp time.Time
	State     State
	// Temperature (Celsius) and Humidity are the readings that triggered
	// the transition; zero for DISCONNECTED events.
	Temperature float64
	Humidity    float64
}

// Format builds the subject and body for a device-state message.
func Format(cfg Config, state State) (subject, body string) {
	name := cfg.DeviceName
	switch state {
	case StateMaxRange:
		return name + " MAX Temp Warning", name + " has triggered the maximum temperature range."
	case StateMinRange:
		return name + " MIN Temp Warning", name + " has triggered the minimum temperature range."
	case StateOffline:
		return name + " Offline Warning", name + " is now offline."
	case StateOnline:
		return name + " Online", name + " is now online."
	case StateDisconnected:
		return name + " Disconnected Warning", name + " sensor is disconnected."
	}
	return name, name + " reported an unknown state."
}
