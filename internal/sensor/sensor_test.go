package sensor

import (
	"errors"
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		raw  int
		want int16
	}{
		{700, 70},
		{705, 70},
		{709, 70},
		{710, 71},
		{0, 0},
		{-150, -15},
	}
	for _, tt := range tests {
		if got := Convert(tt.raw); got != tt.want {
			t.Errorf("Convert(%d): got %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestFakeReaderScriptedSamples(t *testing.T) {
	f := NewFakeReader([]Sample{
		{RawA: 700, RawB: 720},
		{RawA: 740, RawB: 760},
	})

	s, err := f.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if s.RawA != 700 || s.RawB != 720 {
		t.Errorf("first sample: got %v", s)
	}

	s, _ = f.Read()
	if s.RawA != 740 || s.RawB != 760 {
		t.Errorf("second sample: got %v", s)
	}

	// Exhausted samples repeat the last one.
	s, _ = f.Read()
	if s.RawA != 740 || s.RawB != 760 {
		t.Errorf("repeated sample: got %v", s)
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Sample{{RawA: 700, RawB: 720}})
	f.ReadError = errors.New("bus error")

	if _, err := f.Read(); err == nil {
		t.Fatal("expected read error")
	}
}

func TestFakeReaderClose(t *testing.T) {
	f := NewFakeReader(nil)
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !f.Closed {
		t.Error("expected Closed to be set")
	}
}
