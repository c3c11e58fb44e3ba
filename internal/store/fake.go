package store

import (
	"fmt"

	"github.com/sweeney/chamber-logger/internal/logic"
)

// FakeStore is an in-memory logic.Log for tests.
type FakeStore struct {
	// Readings holds the stored records in append order.
	Readings []logic.Reading

	// Max caps the log length. Zero means logic.MaxReadings.
	Max int

	// AppendError, if set, will be returned by Append.
	AppendError error

	// GetError, if set, will be returned by Get.
	GetError error

	// EraseError, if set, will be returned by EraseAll.
	EraseError error

	// Erases counts EraseAll calls.
	Erases int
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (f *FakeStore) max() int {
	if f.Max > 0 {
		return f.Max
	}
	return logic.MaxReadings
}

// Append stores the reading in memory.
func (f *FakeStore) Append(r logic.Reading) (int, error) {
	if f.AppendError != nil {
		return 0, f.AppendError
	}
	if len(f.Readings) >= f.max() {
		return 0, fmt.Errorf("fake store: %d records: %w", len(f.Readings), logic.ErrCapacity)
	}
	f.Readings = append(f.Readings, r)
	return len(f.Readings) - 1, nil
}

// Get returns the reading at index i.
func (f *FakeStore) Get(i int) (logic.Reading, error) {
	if f.GetError != nil {
		return logic.Reading{}, f.GetError
	}
	if i < 0 || i >= len(f.Readings) {
		return logic.Reading{}, fmt.Errorf("fake store: index %d with count %d: %w", i, len(f.Readings), logic.ErrRange)
	}
	return f.Readings[i], nil
}

// Len returns the stored record count.
func (f *FakeStore) Len() int {
	return len(f.Readings)
}

// EraseAll clears the stored readings.
func (f *FakeStore) EraseAll() error {
	if f.EraseError != nil {
		return f.EraseError
	}
	f.Readings = nil
	f.Erases++
	return nil
}
