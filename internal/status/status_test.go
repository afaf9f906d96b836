package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/uv-beacon/internal/logic"
)

var testStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testReading() logic.Reading {
	return logic.NewReading(testStart.Add(time.Minute), 695, 695)
}

func TestNewTracker(t *testing.T) {
	cfg := Config{DeviceName: "UV-Beacon", PeriodMs: 1000, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(testStart, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(testStart) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, testStart)
	}
	if snap.Config.PeriodMs != 1000 {
		t.Errorf("Config.PeriodMs: got %d, want 1000", snap.Config.PeriodMs)
	}
	if snap.Config.HTTPAddr != ":80" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":80")
	}
	if snap.Beacon.State != "UNINITIALIZED" {
		t.Errorf("Beacon.State: got %q, want UNINITIALIZED", snap.Beacon.State)
	}
	if snap.LastReading != nil {
		t.Error("expected no reading initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	r := testReading()

	tr.Update(Beacon{State: "ADVERTISING", CompleteName: "UV index: 7.0", ShortName: "UVI=7.0"},
		&r, Counts{Cycles: 3, Readings: 2, AcquisitionErrors: 1})

	snap := tr.Snapshot()
	if snap.Beacon.State != "ADVERTISING" {
		t.Errorf("Beacon.State: got %q, want ADVERTISING", snap.Beacon.State)
	}
	if snap.Beacon.ShortName != "UVI=7.0" {
		t.Errorf("Beacon.ShortName: got %q", snap.Beacon.ShortName)
	}
	if snap.LastReading == nil || snap.LastReading.Raw != 695 {
		t.Errorf("LastReading: got %+v", snap.LastReading)
	}
	if snap.Counts.Cycles != 3 {
		t.Errorf("Counts.Cycles: got %d, want 3", snap.Counts.Cycles)
	}
	if snap.Counts.AcquisitionErrors != 1 {
		t.Errorf("Counts.AcquisitionErrors: got %d, want 1", snap.Counts.AcquisitionErrors)
	}
}

func TestUpdateWithoutReadingKeepsLast(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	r := testReading()
	tr.Update(Beacon{State: "ADVERTISING"}, &r, Counts{Cycles: 1, Readings: 1})
	tr.Update(Beacon{State: "ADVERTISING"}, nil, Counts{Cycles: 2, Readings: 1, ConversionSkips: 1})

	snap := tr.Snapshot()
	if snap.LastReading == nil || snap.LastReading.Raw != 695 {
		t.Errorf("LastReading should be kept, got %+v", snap.LastReading)
	}
	if snap.Counts.ConversionSkips != 1 {
		t.Errorf("Counts.ConversionSkips: got %d, want 1", snap.Counts.ConversionSkips)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	snap := Snapshot{
		StartTime: testStart,
		Now:       testStart.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(testStart, Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	r := testReading()
	tr.Update(Beacon{State: "ADVERTISING"}, &r, Counts{Cycles: 1})

	snap1 := tr.Snapshot()
	snap1.LastReading.UVIndex = 99

	r2 := logic.NewReading(time.Now(), 100, 100)
	tr.Update(Beacon{State: "FAILED"}, &r2, Counts{Cycles: 2})

	if snap1.Beacon.State != "ADVERTISING" {
		t.Error("snapshot should be a copy; Beacon was modified")
	}
	if snap1.LastReading.Raw != 695 {
		t.Error("snapshot should be a copy; LastReading was modified")
	}
	if got := tr.Snapshot().LastReading.UVIndex; got == 99 {
		t.Error("mutating a snapshot reading leaked into the tracker")
	}
}

func TestFormatJSON(t *testing.T) {
	r := testReading()
	snap := Snapshot{
		Beacon:        Beacon{State: "ADVERTISING", CompleteName: "UV index: 7.0", ShortName: "UVI=7.0"},
		LastReading:   &r,
		Counts:        Counts{Cycles: 5, Readings: 4, UpdateFailures: 1},
		StartTime:     testStart,
		Now:           testStart.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{DeviceName: "UV-Beacon", PeriodMs: 1000, HeartbeatMs: 900000, Scheme: "eddystone", Broker: "tcp://localhost:1883", HTTPAddr: ":80"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Beacon.State != "ADVERTISING" {
		t.Errorf("Beacon.State: got %q, want ADVERTISING", parsed.Status.Beacon.State)
	}
	if parsed.Status.Beacon.Scheme != "eddystone" {
		t.Errorf("Beacon.Scheme: got %q, want eddystone", parsed.Status.Beacon.Scheme)
	}
	if parsed.Status.Beacon.CompleteName != "UV index: 7.0" {
		t.Errorf("Beacon.CompleteName: got %q", parsed.Status.Beacon.CompleteName)
	}
	if parsed.Status.Reading == nil {
		t.Fatal("expected reading in JSON")
	}
	if parsed.Status.Reading.Category != "high" {
		t.Errorf("Reading.Category: got %q, want high", parsed.Status.Reading.Category)
	}
	if parsed.Status.Reading.Timestamp != "2026-01-01T00:01:00Z" {
		t.Errorf("Reading.Timestamp: got %q", parsed.Status.Reading.Timestamp)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if parsed.Status.MQTT.Connected != true {
		t.Error("expected MQTT.Connected=true")
	}
	if parsed.Status.Counts.UpdateFailures != 1 {
		t.Errorf("Counts.UpdateFailures: got %d, want 1", parsed.Status.Counts.UpdateFailures)
	}
	if parsed.Status.Config.PeriodMs != 1000 {
		t.Errorf("Config.PeriodMs: got %d, want 1000", parsed.Status.Config.PeriodMs)
	}
	// Event and Reason should be omitted
	if parsed.Status.Event != "" {
		t.Errorf("expected empty Event for web format, got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("expected empty Reason for web format, got %q", parsed.Status.Reason)
	}
}

func TestFormatJSONUnknownStateNoReading(t *testing.T) {
	snap := Snapshot{
		StartTime: testStart,
		Now:       testStart.Add(time.Second),
	}

	data := FormatJSON(snap)

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	status := raw["status"].(map[string]interface{})
	if _, exists := status["reading"]; exists {
		t.Error("reading should be omitted before the first reading")
	}
	beacon := status["beacon"].(map[string]interface{})
	if beacon["state"] != "UNKNOWN" {
		t.Errorf("beacon.state: got %v, want UNKNOWN", beacon["state"])
	}
}

func TestFormatStatusEvent(t *testing.T) {
	snap := Snapshot{
		Beacon:        Beacon{State: "ADVERTISING"},
		Counts:        Counts{Cycles: 3},
		StartTime:     testStart,
		Now:           testStart.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "HEARTBEAT", "")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "HEARTBEAT" {
		t.Errorf("Event: got %q, want HEARTBEAT", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("Reason: got %q, want empty", parsed.Status.Reason)
	}
	if parsed.Status.Beacon.State != "ADVERTISING" {
		t.Errorf("Beacon.State: got %q, want ADVERTISING", parsed.Status.Beacon.State)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
}

func TestFormatStatusEventShutdown(t *testing.T) {
	snap := Snapshot{
		Beacon:    Beacon{State: "FAILED"},
		StartTime: testStart,
		Now:       testStart.Add(30 * time.Minute),
		Config:    Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q, want SIGTERM", parsed.Status.Reason)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	snap := Snapshot{
		StartTime: testStart,
		Now:       testStart.Add(time.Second),
	}

	data := FormatStatusEvent(snap, "STARTUP", "")

	// Verify "reason" is not in the raw JSON output
	var raw map[string]interface{}
	json.Unmarshal(data, &raw)
	status := raw["status"].(map[string]interface{})
	if _, exists := status["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
	if status["event"] != "STARTUP" {
		t.Errorf("event: got %v, want STARTUP", status["event"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			r := logic.NewReading(time.Now(), logic.RawSample(i), logic.Millivolts(i))
			tr.Update(Beacon{State: "ADVERTISING"}, &r, Counts{Cycles: i})
			tr.SetMQTTConnected(i%2 == 0)
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
			_ = FormatJSON(snap)
		}
	}()

	wg.Wait()
}
