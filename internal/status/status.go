// Package status provides a thread-safe status tracker for the dht-sensor
// daemon. It is read by the HTTP handlers and feeds the MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/shanefarris/dht-sensor/internal/alert"
	"github.com/shanefarris/dht-sensor/internal/dht"
)

// NetworkInfo contains network state reported by the host helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Reading is the last decoded sensor sample with derived values.
// Local copy to avoid importing internal/mqtt from status.
type Reading struct {
	Time         time.Time
	TemperatureC float64
	TemperatureF float64
	Humidity     float64
	HeatIndexF   float64
}

// Config contains daemon configuration for display.
type Config struct {
	DeviceName  string
	Chip        string
	Pin         int
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	MinC        float64
	MaxC        float64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Reading       *Reading
	LastError     string
	DeviceState   alert.State
	Stats         dht.Stats
	ReadFailures  int // ReadRetry calls that exhausted their attempts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordReading stores the latest successful reading and clears the error.
func (t *Tracker) RecordReading(r Reading) {
	t.mu.Lock()
	t.snap.Reading = &r
	t.snap.LastError = ""
	t.mu.Unlock()
}

// RecordReadFailure stores the failure message and bumps the failure count.
// The previous reading, if any, is kept as stale data.
func (t *Tracker) RecordReadFailure(msg string) {
	t.mu.Lock()
	t.snap.LastError = msg
	t.snap.ReadFailures++
	t.mu.Unlock()
}

// SetDeviceState sets the current device alert state.
func (t *Tracker) SetDeviceState(s alert.State) {
	t.mu.Lock()
	t.snap.DeviceState = s
	t.mu.Unlock()
}

// SetStats stores decoder attempt counters.
func (t *Tracker) SetStats(s dht.Stats) {
	t.mu.Lock()
	t.snap.Stats = s
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
