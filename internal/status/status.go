// Package status provides a thread-safe status tracker for the uv-beacon daemon.
// It is read by the HTTP handlers and the MQTT heartbeat.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/uv-beacon/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	DeviceName   string
	PeriodMs     int64
	HeartbeatMs  int64
	Scheme       string
	RadioBackend string
	ADCDevice    string
	ADCChannel   int
	Broker       string
	HTTPAddr     string
}

// Beacon describes what the radio is currently advertising.
type Beacon struct {
	State        string
	CompleteName string
	ShortName    string
}

// Counts tallies sampling cycle outcomes.
type Counts struct {
	Cycles            int
	Readings          int
	AcquisitionErrors int
	ConversionSkips   int
	UpdateFailures    int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Beacon        Beacon
	LastReading   *logic.Reading
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
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
			Beacon:    Beacon{State: "UNINITIALIZED"},
		},
	}
}

// Update sets beacon info and cycle counts. reading is nil when the cycle
// produced no reading; the previous one is then kept.
// Called from runLoop on every tick.
func (t *Tracker) Update(b Beacon, reading *logic.Reading, counts Counts) {
	t.mu.Lock()
	t.snap.Beacon = b
	if reading != nil {
		r := *reading
		t.snap.LastReading = &r
	}
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	if s.LastReading != nil {
		r := *s.LastReading
		s.LastReading = &r
	}
	s.Now = time.Now()
	return s
}
