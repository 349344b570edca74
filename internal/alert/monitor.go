package alert

import "time"

// Monitor tracks the device state across readings and read failures and
// reports transitions. A reading outside the configured temperature range
// moves the state to MAX_RANGE or MIN_RANGE; enough consecutive read
// failures move it to DISCONNECTED; a good in-range reading moves it back
// to ONLINE; an orderly shutdown moves it to OFFLINE. The first reading
// always emits an ONLINE (or range) event so consumers learn the device
// came up.
type Monitor struct {
	minC        float64
	maxC        float64
	maxFailures int

	current  State
	failures int
}

// NewMonitor creates a Monitor with the given temperature range (Celsius)
// and the number of consecutive failures that count as disconnected.
func NewMonitor(minC, maxC float64, maxFailures int) *Monitor {
	return &Monitor{
		minC:        minC,
		maxC:        maxC,
		maxFailures: maxFailures,
	}
}

// Reading records a successful reading and returns a transition event, or
// nil if the state did not change.
func (m *Monitor) Reading(now time.Time, temperature, humidity float64) *Event {
	m.failures = 0

	next := StateOnline
	if temperature > m.maxC {
		next = StateMaxRange
	} else if temperature < m.minC {
		next = StateMinRange
	}

	if next == m.current {
		return nil
	}
	m.current = next
	return &Event{
		Timestamp:   now,
		State:       next,
		Temperature: temperature,
		Humidity:    humidity,
	}
}

// Failure records a failed read attempt and returns a DISCONNECTED event
// once the consecutive-failure threshold is reached, or nil otherwise.
// A single glitched frame and an unplugged sensor look identical on the
// wire, so the escalation is purely count-based.
func (m *Monitor) Failure(now time.Time) *Event {
	m.failures++
	if m.failures < m.maxFailures || m.current == StateDisconnected {
		return nil
	}
	m.current = StateDisconnected
	return &Event{
		Timestamp: now,
		State:     StateDisconnected,
	}
}

// Shutdown records an orderly stop and returns an OFFLINE event, or nil if
// the device never reported a state (a daemon that stops before its first
// reading was never announced as online).
func (m *Monitor) Shutdown(now time.Time) *Event {
	if m.current == "" || m.current == StateOffline {
		return nil
	}
	m.current = StateOffline
	return &Event{
		Timestamp: now,
		State:     StateOffline,
	}
}

// Current returns the current device state. Empty until the first reading
// or failure escalation.
func (m *Monitor) Current() State {
	return m.current
}

// Failures returns the current consecutive-failure count.
func (m *Monitor) Failures() int {
	return m.failures
}
