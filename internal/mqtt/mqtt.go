// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/chamber-logger/internal/logic"
	"github.com/sweeney/chamber-logger/internal/report"
)

// Topic is the MQTT topic for logger events.
const Topic = "energy/chamber/logger/events"

// TopicReport is the MQTT topic for replay report summaries.
const TopicReport = "energy/chamber/logger/report"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "energy/chamber/logger/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a logger event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishReport sends a replay report summary to the broker.
	PublishReport(event ReportEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// ReportEvent carries a replay report and the time it was generated.
type ReportEvent struct {
	Timestamp time.Time
	Report    report.Report
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure for logger events.
type Payload struct {
	Logger LoggerPayload `json:"logger"`
}

// LoggerPayload contains the logger event details.
type LoggerPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	TempA     int    `json:"temp_a"`
	TempB     int    `json:"temp_b"`
	Index     int    `json:"index"`
	Count     int    `json:"count"`
	Detail    string `json:"detail,omitempty"`
}

// FormatPayload creates the JSON payload for a logger event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Logger: LoggerPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			TempA:     int(event.Reading.A),
			TempB:     int(event.Reading.B),
			Index:     event.Index,
			Count:     event.Count,
			Detail:    event.Detail,
		},
	}
	return json.Marshal(payload)
}

// ReportPayload represents the MQTT message payload for report summaries.
type ReportPayload struct {
	Report ReportInner `json:"report"`
}

// ReportInner contains the report details.
type ReportInner struct {
	Timestamp string      `json:"timestamp"`
	Count     int         `json:"count"`
	A         ChannelJSON `json:"channel_a"`
	B         ChannelJSON `json:"channel_b"`
}

// ChannelJSON is the per-channel aggregate block.
type ChannelJSON struct {
	Highest      int     `json:"highest"`
	Average      int     `json:"average"`
	First        int     `json:"first"`
	Last         int     `json:"last"`
	EnergyJoules float64 `json:"energy_joules"`
}

// FormatReportPayload creates the JSON payload for a report summary.
func FormatReportPayload(event ReportEvent) ([]byte, error) {
	payload := ReportPayload{
		Report: ReportInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Count:     event.Report.Count,
			A:         channelJSON(event.Report.A),
			B:         channelJSON(event.Report.B),
		},
	}
	return json.Marshal(payload)
}

func channelJSON(s report.ChannelStats) ChannelJSON {
	return ChannelJSON{
		Highest:      s.Highest,
		Average:      s.Average,
		First:        s.First,
		Last:         s.Last,
		EnergyJoules: s.Energy,
	}
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
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
