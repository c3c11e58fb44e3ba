package store

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/sweeney/chamber-logger/internal/logic"
)

// FileStore implements logic.Log over a fixed-size file standing in for
// the byte-addressable EEPROM region. Appends write the record bytes and
// sync them before the incremented count is written and synced, so a
// power cut between the two leaves the old count and the append never
// happened.
type FileStore struct {
	f        *os.File
	capacity int
	count    int
}

// Open opens (or creates) the backing file and recovers the durable
// count. The file is extended to the region capacity if needed. A
// persisted count pointing past the region is kept as-is and surfaces
// as ErrRange on access.
func Open(path string, capacity int) (*FileStore, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if err := CheckLayout(capacity); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("store: stat %s: %w", path, err)
	}
	if info.Size() < int64(capacity) {
		if err := f.Truncate(int64(capacity)); err != nil {
			f.Close()
			return nil, fmt.Errorf("store: size region to %d bytes: %w", capacity, err)
		}
	}

	var buf [countSize]byte
	if _, err := f.ReadAt(buf[:], countAddr); err != nil {
		f.Close()
		return nil, fmt.Errorf("store: read count: %w", err)
	}

	return &FileStore{
		f:        f,
		capacity: capacity,
		count:    int(binary.LittleEndian.Uint32(buf[:])),
	}, nil
}

// Len returns the durable record count.
func (s *FileStore) Len() int {
	return s.count
}

// Append stores a reading at the next index. Returns logic.ErrCapacity
// when the log is full or the record's byte range would exceed the
// region.
func (s *FileStore) Append(r logic.Reading) (int, error) {
	if s.count >= logic.MaxReadings {
		return 0, fmt.Errorf("store: %d records: %w", s.count, logic.ErrCapacity)
	}
	off, ok := recordOffset(s.count, s.capacity)
	if !ok {
		return 0, fmt.Errorf("store: record %d past region end: %w", s.count, logic.ErrCapacity)
	}

	var buf [recordStride]byte
	binary.LittleEndian.PutUint16(buf[0:2], uint16(r.A))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(r.B))
	if _, err := s.f.WriteAt(buf[:], off); err != nil {
		return 0, fmt.Errorf("store: write record %d: %w", s.count, err)
	}
	if err := s.f.Sync(); err != nil {
		return 0, fmt.Errorf("store: sync record %d: %w", s.count, err)
	}

	if err := s.writeCount(s.count + 1); err != nil {
		return 0, err
	}
	s.count++
	return s.count - 1, nil
}

// Get returns the reading at index i. Returns logic.ErrRange for an
// index at or past the count, or when a corrupted count points past the
// region.
func (s *FileStore) Get(i int) (logic.Reading, error) {
	if i < 0 || i >= s.count {
		return logic.Reading{}, fmt.Errorf("store: index %d with count %d: %w", i, s.count, logic.ErrRange)
	}
	off, ok := recordOffset(i, s.capacity)
	if !ok {
		return logic.Reading{}, fmt.Errorf("store: record %d past region end: %w", i, logic.ErrRange)
	}

	var buf [recordStride]byte
	if _, err := s.f.ReadAt(buf[:], off); err != nil {
		return logic.Reading{}, fmt.Errorf("store: read record %d: %w", i, err)
	}
	return logic.Reading{
		A: int16(binary.LittleEndian.Uint16(buf[0:2])),
		B: int16(binary.LittleEndian.Uint16(buf[2:4])),
	}, nil
}

// EraseAll resets the count to 0, then zeroes the record region. The
// count goes first: a power cut mid-zeroing then leaves an empty log
// with garbage trailing bytes that are never read, instead of a count
// pointing at zeroed records.
func (s *FileStore) EraseAll() error {
	if err := s.writeCount(0); err != nil {
		return err
	}
	s.count = 0

	zeros := make([]byte, logic.MaxReadings*recordStride)
	if _, err := s.f.WriteAt(zeros, recordBase); err != nil {
		return fmt.Errorf("store: zero record region: %w", err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("store: sync erase: %w", err)
	}
	return nil
}

// Close syncs and closes the backing file.
func (s *FileStore) Close() error {
	if err := s.f.Sync(); err != nil {
		s.f.Close()
		return fmt.Errorf("store: sync on close: %w", err)
	}
	return s.f.Close()
}

func (s *FileStore) writeCount(n int) error {
	var buf [countSize]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	if _, err := s.f.WriteAt(buf[:], countAddr); err != nil {
		return fmt.Errorf("store: write count %d: %w", n, err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("store: sync count %d: %w", n, err)
	}
	return nil
}
