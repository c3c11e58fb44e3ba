package store

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sweeney/chamber-logger/internal/logic"
)

func tempStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.bin")
	s, err := Open(path, DefaultCapacity)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s, path
}

func TestStoreAppendAndGet(t *testing.T) {
	s, _ := tempStore(t)
	defer s.Close()

	readings := []logic.Reading{
		{A: 70, B: 72},
		{A: 74, B: 76},
		{A: -5, B: 0},
	}
	for i, r := range readings {
		idx, err := s.Append(r)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if idx != i {
			t.Errorf("append %d: got index %d", i, idx)
		}
	}

	if s.Len() != 3 {
		t.Fatalf("len: got %d, want 3", s.Len())
	}
	for i, want := range readings {
		got, err := s.Get(i)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if got != want {
			t.Errorf("get %d: got %v, want %v", i, got, want)
		}
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	s, path := tempStore(t)

	want := []logic.Reading{{A: 70, B: 72}, {A: 74, B: 76}}
	for _, r := range want {
		if _, err := s.Append(r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Power cycle: a fresh open recovers the durable count and records.
	s2, err := Open(path, DefaultCapacity)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if s2.Len() != 2 {
		t.Fatalf("len after reopen: got %d, want 2", s2.Len())
	}
	for i, w := range want {
		got, err := s2.Get(i)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if got != w {
			t.Errorf("get %d: got %v, want %v", i, got, w)
		}
	}
}

func TestStoreCapacity(t *testing.T) {
	s, _ := tempStore(t)
	defer s.Close()

	for i := 0; i < logic.MaxReadings; i++ {
		if _, err := s.Append(logic.Reading{A: int16(i), B: int16(i + 1)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	_, err := s.Append(logic.Reading{A: 99, B: 99})
	if !errors.Is(err, logic.ErrCapacity) {
		t.Fatalf("append past capacity: got %v, want ErrCapacity", err)
	}
	if s.Len() != logic.MaxReadings {
		t.Errorf("len after failed append: got %d, want %d", s.Len(), logic.MaxReadings)
	}
}

func TestStoreGetOutOfRange(t *testing.T) {
	s, _ := tempStore(t)
	defer s.Close()

	s.Append(logic.Reading{A: 70, B: 72})

	for _, i := range []int{-1, 1, logic.MaxReadings} {
		if _, err := s.Get(i); !errors.Is(err, logic.ErrRange) {
			t.Errorf("get %d: got %v, want ErrRange", i, err)
		}
	}
}

func TestStoreEraseAll(t *testing.T) {
	s, path := tempStore(t)

	s.Append(logic.Reading{A: 70, B: 72})
	s.Append(logic.Reading{A: 74, B: 76})

	if err := s.EraseAll(); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("len after erase: got %d, want 0", s.Len())
	}
	if _, err := s.Get(0); !errors.Is(err, logic.ErrRange) {
		t.Errorf("get after erase: got %v, want ErrRange", err)
	}
	s.Close()

	// Region bytes are actually zeroed, not just the count.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	for i := recordBase; i < recordBase+logic.MaxReadings*recordStride; i++ {
		if raw[i] != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, raw[i])
		}
	}
}

func TestStoreRejectsTooSmallRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.bin")
	if _, err := Open(path, 100); err == nil {
		t.Fatal("expected layout error for a 100 byte region")
	}
}

func TestStoreNegativeTemperatures(t *testing.T) {
	s, path := tempStore(t)

	want := logic.Reading{A: -40, B: -1}
	if _, err := s.Append(want); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s2, err := Open(path, DefaultCapacity)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStoreCorruptedCount(t *testing.T) {
	s, path := tempStore(t)
	s.Append(logic.Reading{A: 70, B: 72})
	s.Close()

	// Corrupt the persisted count so it points past the region.
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	var buf [countSize]byte
	binary.LittleEndian.PutUint32(buf[:], 200)
	if _, err := f.WriteAt(buf[:], countAddr); err != nil {
		t.Fatalf("write count: %v", err)
	}
	f.Close()

	s2, err := Open(path, DefaultCapacity)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if s2.Len() != 200 {
		t.Fatalf("len: got %d, want the corrupted 200", s2.Len())
	}
	if _, err := s2.Get(150); !errors.Is(err, logic.ErrRange) {
		t.Errorf("get past region: got %v, want ErrRange", err)
	}
}
