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
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Beacon        BeaconJSON   `json:"beacon"`
	Reading       *ReadingJSON `json:"reading,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"cycle_counts"`
	Config        ConfigJSON   `json:"config"`
}

// BeaconJSON is the JSON representation of the advertised beacon.
type BeaconJSON struct {
	State        string `json:"state"`
	Scheme       string `json:"scheme"`
	CompleteName string `json:"complete_name"`
	ShortName    string `json:"short_name"`
}

// ReadingJSON is the JSON representation of the last reading.
type ReadingJSON struct {
	Timestamp   string  `json:"timestamp"`
	Raw         int32   `json:"raw"`
	Millivolts  float64 `json:"millivolts"`
	UVIndex     float64 `json:"uv_index"`
	UVIntensity float64 `json:"uv_intensity"`
	Category    string  `json:"category"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of cycle counts.
type CountsJSON struct {
	Cycles            int `json:"cycles"`
	Readings          int `json:"readings"`
	AcquisitionErrors int `json:"acquisition_errors"`
	ConversionSkips   int `json:"conversion_skips"`
	UpdateFailures    int `json:"update_failures"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	DeviceName   string `json:"device_name"`
	PeriodMs     int64  `json:"period_ms"`
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	Scheme       string `json:"scheme"`
	RadioBackend string `json:"radio_backend"`
	ADCDevice    string `json:"adc_device"`
	ADCChannel   int    `json:"adc_channel"`
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	state := snap.Beacon.State
	if state == "" {
		state = "UNKNOWN"
	}

	return StatusInner{
		Beacon: BeaconJSON{
			State:        state,
			Scheme:       snap.Config.Scheme,
			CompleteName: snap.Beacon.CompleteName,
			ShortName:    snap.Beacon.ShortName,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Cycles:            snap.Counts.Cycles,
			Readings:          snap.Counts.Readings,
			AcquisitionErrors: snap.Counts.AcquisitionErrors,
			ConversionSkips:   snap.Counts.ConversionSkips,
			UpdateFailures:    snap.Counts.UpdateFailures,
		},
		Config: ConfigJSON{
			DeviceName:   snap.Config.DeviceName,
			PeriodMs:     snap.Config.PeriodMs,
			HeartbeatMs:  snap.Config.HeartbeatMs,
			Scheme:       snap.Config.Scheme,
			RadioBackend: snap.Config.RadioBackend,
			ADCDevice:    snap.Config.ADCDevice,
			ADCChannel:   snap.Config.ADCChannel,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
		},
	}
}

func buildReading(snap Snapshot, inner *StatusInner) {
	if r := snap.LastReading; r != nil {
		inner.Reading = &ReadingJSON{
			Timestamp:   r.Time.UTC().Format(time.RFC3339),
			Raw:         int32(r.Raw),
			Millivolts:  float64(r.Millivolts),
			UVIndex:     r.UVIndex,
			UVIntensity: r.UVIntensity,
			Category:    string(r.Category),
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildReading(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildReading(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
