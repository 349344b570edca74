package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shanefarris/dht-sensor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"temp": func(c float64) string {
		return fmt.Sprintf("%.1f", c)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Config.DeviceName}}{{.Config.DeviceName}}{{else}}DHT Sensor{{end}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; font-weight: bold; }
.warn { color: orange; font-weight: bold; }
.err { color: red; font-weight: bold; }
.unknown { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>{{if .Config.DeviceName}}{{.Config.DeviceName}}{{else}}DHT Sensor{{end}}</h1>

<h2>Reading</h2>
<table>
{{if .Reading}}
<tr><th>Temperature</th><td>{{temp .Reading.TemperatureC}} &deg;C ({{temp .Reading.TemperatureF}} &deg;F)</td></tr>
<tr><th>Humidity</th><td>{{temp .Reading.Humidity}} %</td></tr>
<tr><th>Heat Index</th><td>{{temp .Reading.HeatIndexF}} &deg;F</td></tr>
<tr><th>Sampled</th><td>{{.Reading.Time.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
{{else}}
<tr><th>Temperature</th><td class="unknown">no reading yet</td></tr>
{{end}}
{{if .LastError}}<tr><th>Last Error</th><td class="err">{{.LastError}}</td></tr>{{end}}
<tr><th>Device State</th><td class="{{if eq (stateOrUnknown (printf "%s" .DeviceState)) "ONLINE"}}ok{{else if eq (stateOrUnknown (printf "%s" .DeviceState)) "UNKNOWN"}}unknown{{else}}warn{{end}}">{{stateOrUnknown (printf "%s" .DeviceState)}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} &mdash; {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Decoder</h2>
<table>
<tr><th>Attempts</th><td>{{.Stats.Attempts}}</td></tr>
<tr><th>Successes</th><td>{{.Stats.Successes}}</td></tr>
<tr><th>Pulse Timeouts</th><td>{{.Stats.Timeouts}}</td></tr>
<tr><th>Checksum Failures</th><td>{{.Stats.Checksums}}</td></tr>
<tr><th>Reads Given Up</th><td>{{.ReadFailures}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Pin</th><td>{{.Config.Chip}}:{{.Config.Pin}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Range</th><td>{{temp .Config.MinC}} &ndash; {{temp .Config.MaxC}} &deg;C</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
