// Command dht-sensor reads a DHT11 humidity/temperature sensor over one
// GPIO line and publishes readings, alerts, and lifecycle events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shanefarris/dht-sensor/internal/alert"
	"github.com/shanefarris/dht-sensor/internal/config"
	"github.com/shanefarris/dht-sensor/internal/convert"
	"github.com/shanefarris/dht-sensor/internal/dht"
	"github.com/shanefarris/dht-sensor/internal/gpio"
	"github.com/shanefarris/dht-sensor/internal/mqtt"
	"github.com/shanefarris/dht-sensor/internal/status"
	"github.com/shanefarris/dht-sensor/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	chip := flag.String("chip", "", "GPIO chip name (overrides config)")
	pin := flag.Int("pin", -1, "BCM pin number of the sensor data line (overrides config)")
	deviceName := flag.String("device-name", "", "device name for alerts (overrides config)")
	poll := flag.Duration("poll", 0, "sensor polling interval (overrides config)")
	heartbeat := flag.Duration("heartbeat", 0, "heartbeat interval (overrides config, negative to disable)")
	httpAddr := flag.String("http", "", `HTTP status address (overrides config, "off" to disable)`)
	printReading := flag.Bool("print-reading", false, "read the sensor once, print, and exit")
	trace := flag.Bool("trace", false, "log raw frames and checksums")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyFlags(&cfg, *broker, *chip, *pin, *deviceName, *poll, *heartbeat, *httpAddr)

	// Flags can push the config back out of bounds (e.g. a sub-second
	// -poll truncates to zero), so the merged result is validated again.
	if err := config.Validate(&cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printReading, *trace); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyFlags overlays explicitly-set flag values on the loaded config.
func applyFlags(cfg *config.Config, broker, chip string, pin int, deviceName string, poll, heartbeat time.Duration, httpAddr string) {
	if broker != "" {
		cfg.MQTT.Broker = broker
	}
	if chip != "" {
		cfg.Device.Chip = chip
	}
	if pin >= 0 {
		cfg.Device.Pin = pin
	}
	if deviceName != "" {
		cfg.Device.Name = deviceName
	}
	if poll > 0 {
		cfg.Device.PollSeconds = int(poll.Seconds())
	}
	if heartbeat != 0 {
		if heartbeat < 0 {
			cfg.Device.HeartbeatMinutes = 0
		} else {
			// Round up so a sub-minute flag keeps heartbeats on; only a
			// negative value disables them.
			cfg.Device.HeartbeatMinutes = int((heartbeat + time.Minute - 1) / time.Minute)
		}
	}
	if httpAddr == "off" {
		cfg.HTTP.Addr = ""
	} else if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}
}

func run(cfg config.Config, printReading, trace bool) error {
	pin, err := gpio.NewRealPin(cfg.Device.Chip, cfg.Device.Pin)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer pin.Close()

	opts := dht.Options{}
	if trace {
		opts.Logf = log.Printf
	}
	decoder, err := dht.NewDecoder(pin, opts)
	if err != nil {
		return fmt.Errorf("init decoder: %w", err)
	}

	// One-shot mode
	if printReading {
		humidity, temperature, err := decoder.ReadRetry()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		fmt.Printf("Temp: %.1fC  Humidity: %.1f%%\n", temperature, humidity)
		return nil
	}

	pollInterval := time.Duration(cfg.Device.PollSeconds) * time.Second
	heartbeat := time.Duration(cfg.Device.HeartbeatMinutes) * time.Minute

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		DeviceName:  cfg.Device.Name,
		Chip:        cfg.Device.Chip,
		Pin:         cfg.Device.Pin,
		PollMs:      pollInterval.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
		MinC:        cfg.Alerts.MinC,
		MaxC:        cfg.Alerts.MaxC,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: device=%s pin=%s:%d poll=%v heartbeat=%v broker=%s",
		cfg.Device.Name, cfg.Device.Chip, cfg.Device.Pin, pollInterval, heartbeat, cfg.MQTT.Broker)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	monitor := alert.NewMonitor(cfg.Alerts.MinC, cfg.Alerts.MaxC, cfg.Alerts.MaxFailures)
	alertCfg := alert.Config{DeviceName: cfg.Device.Name}

	return runLoop(decoder, publisher, publisher, tracker, monitor, alertCfg, heartbeat, time.Now, ticker.C, sigCh)
}

// sampler is the slice of the decoder runLoop needs; tests substitute fakes.
type sampler interface {
	ReadRetry() (humidity, temperature float64, err error)
	Stats() dht.Stats
}

func runLoop(sensor sampler, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, monitor *alert.Monitor, alertCfg alert.Config, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			t := now()

			// Announce the orderly stop on the alert topic so retained
			// state does not claim the device is still online.
			if ev := monitor.Shutdown(t); ev != nil {
				publishAlert(publisher, alertCfg, ev)
			}

			event := mqtt.SystemEvent{
				Timestamp: t,
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				tracker.SetDeviceState(monitor.Current())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			humidity, temperatureC, err := sensor.ReadRetry()
			if err != nil {
				log.Printf("sensor read error: %v", err)
				tracker.RecordReadFailure(err.Error())
				if ev := monitor.Failure(t); ev != nil {
					publishAlert(publisher, alertCfg, ev)
				}
			} else {
				temperatureF := convert.CToF(temperatureC)
				reading := mqtt.Reading{
					Timestamp:    t,
					TemperatureC: temperatureC,
					TemperatureF: temperatureF,
					Humidity:     humidity,
					HeatIndexF:   convert.HeatIndex(temperatureF, humidity),
				}
				log.Printf("reading: %.1fC %.1f%% heat index %.1fF",
					reading.TemperatureC, reading.Humidity, reading.HeatIndexF)
				if err := publisher.PublishReading(reading); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
				tracker.RecordReading(status.Reading{
					Time:         t,
					TemperatureC: reading.TemperatureC,
					TemperatureF: reading.TemperatureF,
					Humidity:     reading.Humidity,
					HeatIndexF:   reading.HeatIndexF,
				})
				if ev := monitor.Reading(t, temperatureC, humidity); ev != nil {
					publishAlert(publisher, alertCfg, ev)
				}
			}

			tracker.SetStats(sensor.Stats())
			tracker.SetDeviceState(monitor.Current())
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			// Check for heartbeat
			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				snap := tracker.Snapshot()
				hbEvent := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func publishAlert(publisher mqtt.Publisher, cfg alert.Config, ev *alert.Event) {
	subject, body := alert.Format(cfg, ev.State)
	log.Printf("alert: %s", subject)
	err := publisher.PublishAlert(mqtt.AlertEvent{
		Timestamp: ev.Timestamp,
		State:     ev.State,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		log.Printf("alert publish error: %v", err)
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
