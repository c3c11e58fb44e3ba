// Package gpio provides button input reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the button input states.
type Reader interface {
	// Read returns the logical states of the toggle and load buttons.
	// The inputs are active-low with pull-ups: raw low = pressed.
	// Returns (togglePressed, loadPressed, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinToggle = 26 // start/stop logging
	DefaultPinLoad   = 16 // replay, long-press erase
)
