// Package logic contains pure business logic for the chamber data logger.
// This package has NO external dependencies (no GPIO, sensors, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package logic

import (
	"errors"
	"time"
)

// MaxReadings is the fixed capacity of the reading log.
const MaxReadings = 60

// Reading is one temperature pair in whole degrees Celsius, immutable
// once stored.
type Reading struct {
	A int16 // channel A
	B int16 // channel B
}

// Sentinel errors shared with the store implementations.
var (
	// ErrCapacity is returned by Append when the log is full or the
	// record would fall outside the backing region.
	ErrCapacity = errors.New("log capacity reached")

	// ErrRange is returned by Get for an index at or past the durable
	// count, or for an offset outside the backing region.
	ErrRange = errors.New("index out of range")
)

// Log is the persistent bounded record store the controller drives.
// Implementations must persist the count durably on every Append and
// EraseAll before returning.
type Log interface {
	// Append stores a reading at index Len() and returns that index.
	Append(r Reading) (int, error)

	// Get returns the reading at index i for i < Len().
	Get(i int) (Reading, error)

	// Len returns the durable record count.
	Len() int

	// EraseAll zeroes the record region and resets the count to 0.
	EraseAll() error
}

// State represents the logging session state. It is volatile: after a
// restart the controller always begins Idle.
type State string

const (
	StateIdle    State = "IDLE"
	StateLogging State = "LOGGING"
)

// EventType identifies a controller event to be reported.
type EventType string

const (
	EventSessionStarted EventType = "SESSION_STARTED"
	EventSessionStopped EventType = "SESSION_STOPPED"
	EventSampleStored   EventType = "SAMPLE_STORED"
	EventSampleRejected EventType = "SAMPLE_REJECTED"
	EventSensorFault    EventType = "SENSOR_FAULT"
	EventStoreFull      EventType = "STORE_FULL"
	EventErased         EventType = "ERASED"
)

// Event is one controller outcome to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Reading   Reading // stored pair (SAMPLE_STORED) or rejected candidate (SAMPLE_REJECTED)
	Index     int     // store index for SAMPLE_STORED
	Count     int     // durable record count after the event
	Detail    string  // human-readable diagnostic detail
}

// SampleInput is one raw excitation pair with its tick time.
// Non-positive raw values mean the probe returned an implausible signal.
type SampleInput struct {
	RawA int
	RawB int
	Time time.Time
}

// ConvertFunc maps a raw excitation reading to whole degrees Celsius.
type ConvertFunc func(raw int) int16

// Counts tracks the number of each outcome since startup.
type Counts struct {
	Stored   int
	Rejected int
	Faults   int
	Sessions int
	Erases   int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}
