package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shanefarris/dht-sensor/internal/alert"
	"github.com/shanefarris/dht-sensor/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		DeviceName:  "Greenhouse",
		Chip:        "gpiochip0",
		Pin:         4,
		PollMs:      30000,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
		MinC:        5,
		MaxC:        35,
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.RecordReading(status.Reading{
		Time:         time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC),
		TemperatureC: 23,
		TemperatureF: 73.4,
		Humidity:     55,
		HeatIndexF:   74.1,
	})
	tr.SetDeviceState(alert.StateOnline)
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Reading == nil || sj.Status.Reading.TemperatureC != 23 {
		t.Errorf("Reading: got %+v", sj.Status.Reading)
	}
	if sj.Status.DeviceState != "ONLINE" {
		t.Errorf("DeviceState: got %q, want ONLINE", sj.Status.DeviceState)
	}
	if !sj.Status.Ready {
		t.Error("expected Ready=true")
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Config.DeviceName != "Greenhouse" {
		t.Errorf("Config.DeviceName: got %q", sj.Status.Config.DeviceName)
	}
}

func TestIndexPage(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.RecordReading(status.Reading{
		Time:         time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC),
		TemperatureC: 23.0,
		TemperatureF: 73.4,
		Humidity:     55.0,
		HeatIndexF:   74.1,
	})
	tr.SetDeviceState(alert.StateOnline)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	html := string(body)

	for _, want := range []string{"Greenhouse", "23.0", "55.0", "ONLINE", "/index.json"} {
		if !strings.Contains(html, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestIndexPageNoReading(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "no reading yet") {
		t.Error("index page should say no reading yet")
	}
	if !strings.Contains(string(body), "UNKNOWN") {
		t.Error("index page should show UNKNOWN device state")
	}
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/other")
	if err != nil {
		t.Fatalf("GET /other: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
