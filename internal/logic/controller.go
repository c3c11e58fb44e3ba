package logic

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDuration is the total test duration a full log spans. The
// sample cadence is derived from it: DefaultDuration / MaxReadings.
const DefaultDuration = 10 * time.Minute

// Config holds the fixed session parameters.
type Config struct {
	// MaxReadings caps the log length. Defaults to MaxReadings.
	MaxReadings int

	// Duration is the total configured test duration. The per-sample
	// period is Duration / MaxReadings, computed once at construction
	// and not reconfigurable mid-session.
	Duration time.Duration

	// Resume keeps the existing history when a session starts instead
	// of erasing it. The legacy behavior (and the default) is to erase.
	Resume bool
}

// Controller is the logging state machine. It owns the session state,
// pulls raw samples, filters them, and appends accepted readings to the
// log. All time is injected; the controller never blocks.
type Controller struct {
	log     Log
	filter  Filter
	convert ConvertFunc
	cfg     Config

	state      State
	period     time.Duration
	lastSample time.Time

	startTime     time.Time
	lastHeartbeat time.Time
	counts        Counts
}

// NewController creates a controller in the Idle state. The startTime
// is used for uptime in heartbeat events.
func NewController(log Log, filter Filter, convert ConvertFunc, cfg Config, startTime time.Time) *Controller {
	if cfg.MaxReadings <= 0 {
		cfg.MaxReadings = MaxReadings
	}
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	return &Controller{
		log:           log,
		filter:        filter,
		convert:       convert,
		cfg:           cfg,
		state:         StateIdle,
		period:        cfg.Duration / time.Duration(cfg.MaxReadings),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// State returns the current session state.
func (c *Controller) State() State {
	return c.state
}

// Period returns the fixed inter-sample interval.
func (c *Controller) Period() time.Duration {
	return c.period
}

// Counts returns a snapshot of the outcome counters.
func (c *Controller) Counts() Counts {
	return c.counts
}

// Toggle flips the session state. Starting a session discards the prior
// history unless Resume is configured; stopping leaves the log as-is.
func (c *Controller) Toggle(now time.Time) ([]Event, error) {
	if c.state == StateLogging {
		c.state = StateIdle
		return []Event{{
			Timestamp: now,
			Type:      EventSessionStopped,
			Count:     c.log.Len(),
		}}, nil
	}

	if !c.cfg.Resume {
		if err := c.log.EraseAll(); err != nil {
			return nil, fmt.Errorf("reset log for new session: %w", err)
		}
	}
	c.state = StateLogging
	c.lastSample = now
	c.counts.Sessions++
	return []Event{{
		Timestamp: now,
		Type:      EventSessionStarted,
		Count:     c.log.Len(),
	}}, nil
}

// Due reports whether a sample should be taken at the given tick time.
func (c *Controller) Due(now time.Time) bool {
	return c.state == StateLogging && now.Sub(c.lastSample) >= c.period
}

// Sample processes one raw sample pair. The tick is consumed (the
// cadence clock advances) whether or not the sample is stored. Returns
// the events to be reported.
func (c *Controller) Sample(in SampleInput) []Event {
	if !c.Due(in.Time) {
		return nil
	}
	c.lastSample = in.Time

	if in.RawA <= 0 || in.RawB <= 0 {
		c.counts.Faults++
		return []Event{{
			Timestamp: in.Time,
			Type:      EventSensorFault,
			Count:     c.log.Len(),
			Detail:    fmt.Sprintf("implausible raw signal (a=%d b=%d)", in.RawA, in.RawB),
		}}
	}

	r := Reading{A: c.convert(in.RawA), B: c.convert(in.RawB)}

	var prev *Reading
	if n := c.log.Len(); n > 0 {
		p, err := c.log.Get(n - 1)
		if err != nil {
			c.counts.Faults++
			return []Event{{
				Timestamp: in.Time,
				Type:      EventSensorFault,
				Count:     n,
				Detail:    fmt.Sprintf("read baseline record: %v", err),
			}}
		}
		prev = &p
	}

	if !c.filter.Accept(r, prev) {
		c.counts.Rejected++
		return []Event{{
			Timestamp: in.Time,
			Type:      EventSampleRejected,
			Reading:   r,
			Count:     c.log.Len(),
			Detail:    fmt.Sprintf("delta exceeds %d against (%d,%d)", c.filter.Threshold, prev.A, prev.B),
		}}
	}

	idx, err := c.log.Append(r)
	if err != nil {
		c.state = StateIdle
		detail := err.Error()
		if errors.Is(err, ErrCapacity) {
			detail = "store full"
		}
		return []Event{{
			Timestamp: in.Time,
			Type:      EventStoreFull,
			Count:     c.log.Len(),
			Detail:    detail,
		}}
	}

	c.counts.Stored++
	events := []Event{{
		Timestamp: in.Time,
		Type:      EventSampleStored,
		Reading:   r,
		Index:     idx,
		Count:     c.log.Len(),
	}}

	// Reaching capacity on a successful append ends the session.
	if c.log.Len() >= c.cfg.MaxReadings {
		c.state = StateIdle
		events = append(events, Event{
			Timestamp: in.Time,
			Type:      EventSessionStopped,
			Count:     c.log.Len(),
			Detail:    "store full",
		})
	}
	return events
}

// Erase zeroes the log on an explicit user command. Any running session
// is stopped first so it does not keep appending after its history is
// gone.
func (c *Controller) Erase(now time.Time) ([]Event, error) {
	var events []Event
	if c.state == StateLogging {
		c.state = StateIdle
		events = append(events, Event{
			Timestamp: now,
			Type:      EventSessionStopped,
			Count:     c.log.Len(),
		})
	}
	if err := c.log.EraseAll(); err != nil {
		return events, fmt.Errorf("erase log: %w", err)
	}
	c.counts.Erases++
	events = append(events, Event{
		Timestamp: now,
		Type:      EventErased,
		Count:     0,
	})
	return events, nil
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed
// since the last heartbeat (or startup). Returns nil if the interval
// has not elapsed or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}
	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.counts,
	}
}
