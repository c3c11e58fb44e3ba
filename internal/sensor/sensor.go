// Package sensor reads the two chamber temperature probes with hardware
// abstraction. The real implementation drives DHT22 probes on GPIO; the
// fake implementation allows testing without hardware.
package sensor

// Sample is one raw excitation pair. A non-positive value means the
// probe did not return a plausible signal for that channel.
type Sample struct {
	RawA int
	RawB int
}

// Default GPIO pins for the two probes (BCM names).
const (
	DefaultPinA = "GPIO17"
	DefaultPinB = "GPIO27"
)

// Reader reads both probes.
type Reader interface {
	// Read returns the raw excitation pair. Probe-level faults are
	// reported as non-positive raw values, not as errors; an error
	// means the reader itself failed.
	Read() (Sample, error)

	// Close releases sensor resources.
	Close() error
}

// Convert maps a raw excitation reading to whole degrees Celsius. The
// probes report deci-degrees; stored engineering precision is whole
// degrees.
func Convert(raw int) int16 {
	return int16(raw / 10)
}
