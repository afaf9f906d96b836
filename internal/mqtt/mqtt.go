// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/uv-beacon/internal/logic"
)

// Topic is the MQTT topic for UV readings.
const Topic = "sensor/uv/readings"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "sensor/uv/system"

// Publisher publishes readings to MQTT.
type Publisher interface {
	// Publish sends a UV reading to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(r logic.Reading) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	UV UVPayload `json:"uv"`
}

// UVPayload contains the reading details.
type UVPayload struct {
	Timestamp   string  `json:"timestamp"`
	Raw         int32   `json:"raw"`
	Millivolts  float64 `json:"millivolts"`
	UVIndex     float64 `json:"uv_index"`
	UVIntensity float64 `json:"uv_intensity"`
	Category    string  `json:"category"`
}

// FormatPayload creates the JSON payload for a reading.
func FormatPayload(r logic.Reading) ([]byte, error) {
	payload := Payload{
		UV: UVPayload{
			Timestamp:   r.Time.UTC().Format(time.RFC3339),
			Raw:         int32(r.Raw),
			Millivolts:  float64(r.Millivolts),
			UVIndex:     r.UVIndex,
			UVIntensity: r.UVIntensity,
			Category:    string(r.Category),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
