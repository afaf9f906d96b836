package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/uv-beacon/internal/status"
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
	"stateClass": func(s string) string {
		switch s {
		case "ADVERTISING":
			return "ok"
		case "FAILED":
			return "err"
		default:
			return "unknown"
		}
	},
	"rfc3339": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>UV Beacon</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; font-weight: bold; }
.err { color: red; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.uvi { font-size: 2em; }
.low { color: #289500; }
.moderate { color: #c7a400; }
.high { color: #f85900; }
.very_high { color: #d8001d; }
.extreme { color: #6b49c8; }
</style>
</head>
<body>
<h1>{{.Config.DeviceName}}</h1>

<h2>Reading</h2>
{{with .LastReading}}<table>
<tr><th>UV index</th><td id="uv-index" class="uvi {{.Category}}">{{printf "%.1f" .UVIndex}}</td></tr>
<tr><th>Category</th><td class="{{.Category}}">{{.Category}}</td></tr>
<tr><th>Intensity</th><td>{{printf "%.1f" .UVIntensity}} mW/m&sup2;</td></tr>
<tr><th>Sensor</th><td>{{printf "%.0f" .Millivolts}} mV (raw {{.Raw}})</td></tr>
<tr><th>Taken</th><td>{{rfc3339 .Time}}</td></tr>
</table>{{else}}<p class="unknown">no reading yet</p>{{end}}

<h2>Beacon</h2>
<table>
<tr><th>State</th><td id="beacon-state" class="{{stateClass .Beacon.State}}">{{.Beacon.State}}</td></tr>
<tr><th>Scheme</th><td>{{.Config.Scheme}}</td></tr>
<tr><th>Complete name</th><td>{{.Beacon.CompleteName}}</td></tr>
<tr><th>Short name</th><td>{{.Beacon.ShortName}}</td></tr>
<tr><th>Radio</th><td>{{.Config.RadioBackend}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>Cycles</h2>
<table>
<tr><th>Total</th><td>{{.Counts.Cycles}}</td></tr>
<tr><th>Readings</th><td>{{.Counts.Readings}}</td></tr>
<tr><th>Acquisition errors</th><td>{{.Counts.AcquisitionErrors}}</td></tr>
<tr><th>Conversion skips</th><td>{{.Counts.ConversionSkips}}</td></tr>
<tr><th>Update failures</th><td>{{.Counts.UpdateFailures}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{rfc3339 .StartTime}}</td></tr>
<tr><th>Sample period</th><td>{{.Config.PeriodMs}} ms</td></tr>
<tr><th>ADC</th><td>{{.Config.ADCDevice}} channel {{.Config.ADCChannel}}</td></tr>
</table>
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
