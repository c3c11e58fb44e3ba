package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/chamber-logger/internal/logic"
)

var trackerStart = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		PollMs:     100,
		DebounceMs: 50,
		HoldMs:     5000,
		PeriodMs:   10000,
		DurationMs: 600000,
		Broker:     "tcp://192.168.1.200:1883",
		HTTPAddr:   ":80",
		DataFile:   "/var/lib/chamber-logger/readings.bin",
	}
}

func TestTrackerInitialSnapshot(t *testing.T) {
	tr := NewTracker(trackerStart, testConfig())
	snap := tr.Snapshot()

	if snap.State != logic.StateIdle {
		t.Errorf("state: got %s, want IDLE", snap.State)
	}
	if snap.Count != 0 {
		t.Errorf("count: got %d, want 0", snap.Count)
	}
	if snap.LastReading != nil {
		t.Errorf("last reading: got %v, want nil", snap.LastReading)
	}
	if snap.StartTime != trackerStart {
		t.Errorf("start time: got %v", snap.StartTime)
	}
}

func TestTrackerUpdate(t *testing.T) {
	tr := NewTracker(trackerStart, testConfig())

	tr.Update(logic.StateLogging, 3, logic.Counts{Stored: 3, Rejected: 1, Sessions: 1})
	tr.SetLastReading(logic.Reading{A: 77, B: 79})
	tr.SetMQTTConnected(true)

	snap := tr.Snapshot()
	if snap.State != logic.StateLogging {
		t.Errorf("state: got %s, want LOGGING", snap.State)
	}
	if snap.Count != 3 {
		t.Errorf("count: got %d, want 3", snap.Count)
	}
	if snap.Counts.Rejected != 1 {
		t.Errorf("rejected: got %d, want 1", snap.Counts.Rejected)
	}
	if snap.LastReading == nil || snap.LastReading.A != 77 || snap.LastReading.B != 79 {
		t.Errorf("last reading: got %v", snap.LastReading)
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTT connected")
	}
}

func TestTrackerSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(trackerStart, testConfig())
	tr.SetLastReading(logic.Reading{A: 70, B: 72})

	snap := tr.Snapshot()
	tr.SetLastReading(logic.Reading{A: 99, B: 99})

	if snap.LastReading.A != 70 {
		t.Errorf("snapshot mutated after later update: got %d", snap.LastReading.A)
	}
}

func TestFormatJSON(t *testing.T) {
	snap := Snapshot{
		State:         logic.StateLogging,
		Count:         3,
		LastReading:   &logic.Reading{A: 77, B: 79},
		Counts:        logic.Counts{Stored: 3, Rejected: 1, Sessions: 1},
		StartTime:     trackerStart,
		Now:           trackerStart.Add(90 * time.Second),
		MQTTConnected: true,
		Config:        testConfig(),
	}

	var got StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Status.State != "LOGGING" {
		t.Errorf("state: got %q", got.Status.State)
	}
	if got.Status.Count != 3 {
		t.Errorf("count: got %d", got.Status.Count)
	}
	if got.Status.UptimeSeconds != 90 {
		t.Errorf("uptime: got %d, want 90", got.Status.UptimeSeconds)
	}
	if got.Status.LastReading == nil || got.Status.LastReading.TempA != 77 {
		t.Errorf("last reading: got %v", got.Status.LastReading)
	}
	if !got.Status.MQTT.Connected || got.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("mqtt: got %+v", got.Status.MQTT)
	}
	if got.Status.Counts.Rejected != 1 {
		t.Errorf("counts: got %+v", got.Status.Counts)
	}
	if got.Status.Config.PeriodMs != 10000 {
		t.Errorf("config period: got %d", got.Status.Config.PeriodMs)
	}
	if got.Status.Event != "" {
		t.Errorf("web status must not carry an event, got %q", got.Status.Event)
	}
}

func TestFormatJSONOmitsNilLastReading(t *testing.T) {
	snap := Snapshot{
		State:     logic.StateIdle,
		StartTime: trackerStart,
		Now:       trackerStart,
		Config:    testConfig(),
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(FormatJSON(snap), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["status"]["last_reading"]; present {
		t.Error("expected last_reading omitted when nil")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	snap := Snapshot{
		State:     logic.StateIdle,
		StartTime: trackerStart,
		Now:       trackerStart.Add(time.Hour),
		Config:    testConfig(),
	}

	var got StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM"), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", got.Status.Event)
	}
	if got.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", got.Status.Reason)
	}
	if got.Status.UptimeSeconds != 3600 {
		t.Errorf("uptime: got %d, want 3600", got.Status.UptimeSeconds)
	}
}
