package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string        `json:"event,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	Reading       *ReadingJSON  `json:"reading,omitempty"`
	LastError     string        `json:"last_error,omitempty"`
	DeviceState   string        `json:"device_state"`
	Ready         bool          `json:"ready"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	MQTT          MQTTStatus    `json:"mqtt"`
	Decoder       DecoderCounts `json:"decoder_counts"`
	ReadFailures  int           `json:"read_failures"`
	Network       *NetworkJSON  `json:"network,omitempty"`
	Config        ConfigJSON    `json:"config"`
}

// ReadingJSON is the JSON representation of the last reading.
type ReadingJSON struct {
	Time         string  `json:"time"`
	TemperatureC float64 `json:"temperature_c"`
	TemperatureF float64 `json:"temperature_f"`
	Humidity     float64 `json:"humidity"`
	HeatIndexF   float64 `json:"heat_index_f"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// DecoderCounts is the JSON representation of decoder attempt counters.
type DecoderCounts struct {
	Attempts  uint64 `json:"attempts"`
	Successes uint64 `json:"successes"`
	Timeouts  uint64 `json:"timeouts"`
	Checksums uint64 `json:"checksum_failures"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	DeviceName  string  `json:"device_name"`
	Chip        string  `json:"chip"`
	Pin         int     `json:"pin"`
	PollMs      int64   `json:"poll_ms"`
	HeartbeatMs int64   `json:"heartbeat_ms"`
	Broker      string  `json:"broker"`
	HTTPAddr    string  `json:"http_addr"`
	MinC        float64 `json:"min_c"`
	MaxC        float64 `json:"max_c"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.DeviceState)
	if state == "" {
		state = "UNKNOWN"
	}

	inner := StatusInner{
		DeviceState:   state,
		LastError:     snap.LastError,
		Ready:         snap.Reading != nil,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Decoder: DecoderCounts{
			Attempts:  snap.Stats.Attempts,
			Successes: snap.Stats.Successes,
			Timeouts:  snap.Stats.Timeouts,
			Checksums: snap.Stats.Checksums,
		},
		ReadFailures: snap.ReadFailures,
		Config: ConfigJSON{
			DeviceName:  snap.Config.DeviceName,
			Chip:        snap.Config.Chip,
			Pin:         snap.Config.Pin,
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			MinC:        snap.Config.MinC,
			MaxC:        snap.Config.MaxC,
		},
	}

	if snap.Reading != nil {
		inner.Reading = &ReadingJSON{
			Time:         snap.Reading.Time.UTC().Format(time.RFC3339),
			TemperatureC: snap.Reading.TemperatureC,
			TemperatureF: snap.Reading.TemperatureF,
			Humidity:     snap.Reading.Humidity,
			HeatIndexF:   snap.Reading.HeatIndexF,
		}
	}

	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
