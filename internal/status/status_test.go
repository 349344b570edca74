package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shanefarris/dht-sensor/internal/alert"
	"github.com/shanefarris/dht-sensor/internal/dht"
)

var start = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		DeviceName:  "Greenhouse",
		Chip:        "gpiochip0",
		Pin:         4,
		PollMs:      30000,
		HeartbeatMs: 900000,
		Broker:      "tcp://broker:1883",
		HTTPAddr:    ":8080",
		MinC:        5,
		MaxC:        35,
	}
}

func TestTrackerInitialSnapshot(t *testing.T) {
	tr := NewTracker(start, testConfig())
	snap := tr.Snapshot()

	if snap.Reading != nil {
		t.Error("new tracker should have no reading")
	}
	if !snap.StartTime.Equal(start) {
		t.Errorf("start time = %v, want %v", snap.StartTime, start)
	}
	if snap.Config.DeviceName != "Greenhouse" {
		t.Errorf("config not carried: %+v", snap.Config)
	}
	if snap.Now.IsZero() {
		t.Error("Snapshot should stamp Now")
	}
}

func TestTrackerRecordReading(t *testing.T) {
	tr := NewTracker(start, testConfig())
	tr.RecordReadFailure("dht: timeout waiting for pulse")

	r := Reading{
		Time:         start.Add(time.Minute),
		TemperatureC: 23,
		TemperatureF: 73.4,
		Humidity:     55,
		HeatIndexF:   74.1,
	}
	tr.RecordReading(r)

	snap := tr.Snapshot()
	if snap.Reading == nil {
		t.Fatal("reading not recorded")
	}
	if snap.Reading.TemperatureC != 23 || snap.Reading.Humidity != 55 {
		t.Errorf("reading = %+v", snap.Reading)
	}
	if snap.LastError != "" {
		t.Errorf("a good reading should clear the error, got %q", snap.LastError)
	}
	if snap.ReadFailures != 1 {
		t.Errorf("failure count should persist across recoveries, got %d", snap.ReadFailures)
	}
}

func TestTrackerRecordReadFailureKeepsStaleReading(t *testing.T) {
	tr := NewTracker(start, testConfig())
	tr.RecordReading(Reading{Time: start, TemperatureC: 20})

	tr.RecordReadFailure("dht: checksum mismatch")

	snap := tr.Snapshot()
	if snap.Reading == nil || snap.Reading.TemperatureC != 20 {
		t.Error("stale reading should survive a failure")
	}
	if snap.LastError != "dht: checksum mismatch" {
		t.Errorf("last error = %q", snap.LastError)
	}
}

func TestTrackerSetters(t *testing.T) {
	tr := NewTracker(start, testConfig())
	tr.SetDeviceState(alert.StateMaxRange)
	tr.SetStats(dht.Stats{Attempts: 7, Successes: 5, Timeouts: 1, Checksums: 1})
	tr.SetMQTTConnected(true)
	tr.SetNetwork(&NetworkInfo{Status: "online", IP: "192.168.1.50"})

	snap := tr.Snapshot()
	if snap.DeviceState != alert.StateMaxRange {
		t.Errorf("device state = %s", snap.DeviceState)
	}
	if snap.Stats.Attempts != 7 || snap.Stats.Timeouts != 1 {
		t.Errorf("stats = %+v", snap.Stats)
	}
	if !snap.MQTTConnected {
		t.Error("mqtt connected flag not set")
	}
	if snap.Network == nil || snap.Network.IP != "192.168.1.50" {
		t.Errorf("network = %+v", snap.Network)
	}
}

func TestSnapshotUptime(t *testing.T) {
	snap := Snapshot{StartTime: start, Now: start.Add(90 * time.Second)}
	if snap.Uptime() != 90*time.Second {
		t.Errorf("uptime = %v", snap.Uptime())
	}
}

func TestFormatJSON(t *testing.T) {
	tr := NewTracker(start, testConfig())
	tr.RecordReading(Reading{
		Time:         start.Add(time.Minute),
		TemperatureC: 23,
		TemperatureF: 73.4,
		Humidity:     55,
		HeatIndexF:   74.1,
	})
	tr.SetDeviceState(alert.StateOnline)
	tr.SetStats(dht.Stats{Attempts: 3, Successes: 2, Timeouts: 1})

	var decoded StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &decoded); err != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", err)
	}

	inner := decoded.Status
	if inner.Event != "" {
		t.Errorf("web JSON should carry no event, got %q", inner.Event)
	}
	if !inner.Ready {
		t.Error("ready should be true once a reading exists")
	}
	if inner.Reading == nil || inner.Reading.TemperatureC != 23 {
		t.Errorf("reading = %+v", inner.Reading)
	}
	if inner.DeviceState != "ONLINE" {
		t.Errorf("device state = %q", inner.DeviceState)
	}
	if inner.Decoder.Attempts != 3 || inner.Decoder.Timeouts != 1 {
		t.Errorf("decoder counts = %+v", inner.Decoder)
	}
	if inner.Config.Pin != 4 || inner.Config.MaxC != 35 {
		t.Errorf("config = %+v", inner.Config)
	}
}

func TestFormatJSONNoReading(t *testing.T) {
	tr := NewTracker(start, testConfig())

	var decoded StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Status.Ready {
		t.Error("ready should be false without a reading")
	}
	if decoded.Status.Reading != nil {
		t.Error("reading should be omitted")
	}
	if decoded.Status.DeviceState != "UNKNOWN" {
		t.Errorf("device state = %q, want UNKNOWN", decoded.Status.DeviceState)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(start, testConfig())
	payload := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var decoded StatusJSON
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Status.Event != "SHUTDOWN" || decoded.Status.Reason != "SIGTERM" {
		t.Errorf("event/reason = %q/%q", decoded.Status.Event, decoded.Status.Reason)
	}
}
