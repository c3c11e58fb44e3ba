// Package store persists the bounded reading log in a byte-addressable
// non-volatile region. The record count is the only crash-durable state:
// it is synced on every structural change, and readers never look past
// it, so partially written trailing bytes are harmless.
package store

import (
	"fmt"

	"github.com/sweeney/chamber-logger/internal/logic"
)

// Region layout. The count lives at a reserved base address, followed by
// a packed array of fixed-stride records at a second base address.
const (
	countAddr    = 0x00
	countSize    = 4
	recordBase   = 0x08
	recordStride = 4 // two little-endian int16 fields
)

// DefaultCapacity is the region size in bytes, matching the EEPROM part
// the logger was built around.
const DefaultCapacity = 512

// CheckLayout verifies the reserved span fits the region capacity. A
// violation is a configuration error, caught at startup rather than at
// append time.
func CheckLayout(capacity int) error {
	need := recordBase + logic.MaxReadings*recordStride
	if need > capacity {
		return fmt.Errorf("store: layout needs %d bytes, region has %d", need, capacity)
	}
	return nil
}

// recordOffset computes the byte offset of record i. Reports false when
// the record's byte range would exceed the region.
func recordOffset(i, capacity int) (int64, bool) {
	off := recordBase + i*recordStride
	return int64(off), off+recordStride <= capacity
}
