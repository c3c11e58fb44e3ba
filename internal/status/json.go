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
	State         string       `json:"state"`
	Count         int          `json:"count"`
	LastReading   *ReadingJSON `json:"last_reading,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the JSON representation of a stored pair.
type ReadingJSON struct {
	TempA int `json:"temp_a"`
	TempB int `json:"temp_b"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of outcome counters.
type CountsJSON struct {
	Stored   int `json:"stored"`
	Rejected int `json:"rejected"`
	Faults   int `json:"faults"`
	Sessions int `json:"sessions"`
	Erases   int `json:"erases"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs     int64  `json:"poll_ms"`
	DebounceMs int64  `json:"debounce_ms"`
	HoldMs     int64  `json:"hold_ms"`
	PeriodMs   int64  `json:"period_ms"`
	DurationMs int64  `json:"duration_ms"`
	Broker     string `json:"broker"`
	HTTPAddr   string `json:"http_addr"`
	DataFile   string `json:"data_file"`
	InfluxURL  string `json:"influx_url,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	inner := StatusInner{
		State:         state,
		Count:         snap.Count,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Stored:   snap.Counts.Stored,
			Rejected: snap.Counts.Rejected,
			Faults:   snap.Counts.Faults,
			Sessions: snap.Counts.Sessions,
			Erases:   snap.Counts.Erases,
		},
		Config: ConfigJSON{
			PollMs:     snap.Config.PollMs,
			DebounceMs: snap.Config.DebounceMs,
			HoldMs:     snap.Config.HoldMs,
			PeriodMs:   snap.Config.PeriodMs,
			DurationMs: snap.Config.DurationMs,
			Broker:     snap.Config.Broker,
			HTTPAddr:   snap.Config.HTTPAddr,
			DataFile:   snap.Config.DataFile,
			InfluxURL:  snap.Config.InfluxURL,
		},
	}

	if snap.LastReading != nil {
		inner.LastReading = &ReadingJSON{
			TempA: int(snap.LastReading.A),
			TempB: int(snap.LastReading.B),
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
