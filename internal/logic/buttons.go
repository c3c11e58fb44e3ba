package logic

import "time"

// Button timing defaults.
const (
	// DefaultDebounce is how long a level must hold before a press or
	// release is recognized.
	DefaultDebounce = 50 * time.Millisecond

	// DefaultHold is how long the load button must stay pressed to
	// trigger an erase instead of a replay.
	DefaultHold = 5 * time.Second
)

// Action is a recognized user command from the buttons.
type Action string

const (
	ActionToggle Action = "TOGGLE"
	ActionReplay Action = "REPLAY"
	ActionErase  Action = "ERASE"
)

// ButtonInput is one sampled pair of logical button levels (true =
// pressed, already inverted from the active-low inputs).
type ButtonInput struct {
	Toggle bool
	Load   bool
	Time   time.Time
}

// debounceState tracks the debounce state for a single button.
type debounceState struct {
	stable       bool
	pending      bool
	hasPending   bool
	pendingSince time.Time
}

// Buttons recognizes debounced button commands without ever blocking:
// each edge is timestamped and compared against the current tick time,
// so button handling can never starve the sample cadence.
type Buttons struct {
	debounce time.Duration
	hold     time.Duration

	toggle debounceState
	load   debounceState

	loadPressedAt time.Time
	holdFired     bool
}

// NewButtons creates a button state machine with the given debounce
// interval and load-button hold duration.
func NewButtons(debounce, hold time.Duration) *Buttons {
	return &Buttons{debounce: debounce, hold: hold}
}

// Process takes one sample of button levels and returns any recognized
// actions. Toggle fires on press. Load fires Replay on release, unless
// it was held past the hold duration, in which case Erase fires exactly
// once at the threshold and the release is swallowed.
func (b *Buttons) Process(in ButtonInput) []Action {
	var actions []Action

	if b.step(&b.toggle, in.Toggle, in.Time) && b.toggle.stable {
		actions = append(actions, ActionToggle)
	}

	if b.step(&b.load, in.Load, in.Time) {
		if b.load.stable {
			b.loadPressedAt = in.Time
			b.holdFired = false
		} else if !b.holdFired {
			actions = append(actions, ActionReplay)
		}
	}

	// The hold clock runs from the recognized press, not the raw edge.
	if b.load.stable && !b.holdFired && in.Time.Sub(b.loadPressedAt) >= b.hold {
		b.holdFired = true
		actions = append(actions, ActionErase)
	}

	return actions
}

// step advances one button's debounce state. Reports whether the stable
// level changed on this sample.
func (b *Buttons) step(s *debounceState, level bool, now time.Time) bool {
	if level == s.stable {
		s.hasPending = false
		return false
	}

	if !s.hasPending || s.pending != level {
		s.pending = level
		s.hasPending = true
		s.pendingSince = now
		return false
	}

	if now.Sub(s.pendingSince) >= b.debounce {
		s.stable = level
		s.hasPending = false
		return true
	}

	return false
}
