package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderScriptedSamples(t *testing.T) {
	f := NewFakeReader([]Sample{
		{Toggle: false, Load: false},
		{Toggle: true, Load: false},
		{Toggle: false, Load: true},
	})

	toggle, load, err := f.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if toggle || load {
		t.Errorf("first sample: got toggle=%v load=%v", toggle, load)
	}

	toggle, load, _ = f.Read()
	if !toggle || load {
		t.Errorf("second sample: got toggle=%v load=%v", toggle, load)
	}

	toggle, load, _ = f.Read()
	if toggle || !load {
		t.Errorf("third sample: got toggle=%v load=%v", toggle, load)
	}

	// Exhausted samples repeat the last one.
	toggle, load, _ = f.Read()
	if toggle || !load {
		t.Errorf("repeated sample: got toggle=%v load=%v", toggle, load)
	}
}

func TestFakeReaderEmpty(t *testing.T) {
	f := NewFakeReader(nil)
	if _, _, err := f.Read(); err == nil {
		t.Fatal("expected error with no samples configured")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Sample{{Toggle: true}})
	f.ReadError = errors.New("chip gone")

	if _, _, err := f.Read(); err == nil {
		t.Fatal("expected read error")
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewFakeReader([]Sample{
		{Toggle: true, Load: false},
		{Toggle: false, Load: true},
	})

	f.Read()
	f.Read()
	f.Close()
	f.Reset()

	if f.Closed {
		t.Error("expected Closed cleared after reset")
	}
	toggle, load, err := f.Read()
	if err != nil {
		t.Fatalf("read after reset: %v", err)
	}
	if !toggle || load {
		t.Errorf("expected first sample again, got toggle=%v load=%v", toggle, load)
	}
}
