//go:build linux

package sensor

import (
	"fmt"

	"github.com/MichaelS11/go-dht"
)

const readRetries = 3

// RealReader reads two DHT22 probes on actual hardware.
type RealReader struct {
	a *dht.DHT
	b *dht.DHT
}

// NewRealReader creates a sensor reader for actual Raspberry Pi hardware.
func NewRealReader(pinA, pinB string) (*RealReader, error) {
	if err := dht.HostInit(); err != nil {
		return nil, fmt.Errorf("init gpio host: %w", err)
	}

	a, err := dht.NewDHT(pinA, dht.Celsius, "")
	if err != nil {
		return nil, fmt.Errorf("probe A on %s: %w", pinA, err)
	}
	b, err := dht.NewDHT(pinB, dht.Celsius, "")
	if err != nil {
		return nil, fmt.Errorf("probe B on %s: %w", pinB, err)
	}

	return &RealReader{a: a, b: b}, nil
}

// Read samples both probes. A probe that fails to answer yields a zero
// raw value so the caller treats it as a per-channel sensor fault
// instead of aborting the tick.
func (r *RealReader) Read() (Sample, error) {
	var s Sample
	if _, temp, err := r.a.ReadRetry(readRetries); err == nil {
		s.RawA = int(temp * 10)
	}
	if _, temp, err := r.b.ReadRetry(readRetries); err == nil {
		s.RawB = int(temp * 10)
	}
	return s, nil
}

// Close releases sensor resources.
func (r *RealReader) Close() error {
	return nil
}
