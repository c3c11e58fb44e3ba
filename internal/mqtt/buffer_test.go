package mqtt

import (
	"fmt"
	"testing"
)

func TestRingBufferPushAndDrain(t *testing.T) {
	r := newRingBuffer(4)

	for i := 0; i < 3; i++ {
		r.push(bufferedMsg{topic: Topic, payload: []byte(fmt.Sprintf("m%d", i))})
	}
	if r.len() != 3 {
		t.Fatalf("len: got %d, want 3", r.len())
	}

	msgs := r.drainAll()
	if len(msgs) != 3 {
		t.Fatalf("drained: got %d, want 3", len(msgs))
	}
	for i, m := range msgs {
		want := fmt.Sprintf("m%d", i)
		if string(m.payload) != want {
			t.Errorf("msg %d: got %q, want %q", i, m.payload, want)
		}
	}
	if r.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", r.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)

	for i := 0; i < 5; i++ {
		r.push(bufferedMsg{payload: []byte(fmt.Sprintf("m%d", i))})
	}
	if r.len() != 3 {
		t.Fatalf("len: got %d, want 3", r.len())
	}

	msgs := r.drainAll()
	want := []string{"m2", "m3", "m4"}
	for i, w := range want {
		if string(msgs[i].payload) != w {
			t.Errorf("msg %d: got %q, want %q", i, msgs[i].payload, w)
		}
	}
}

func TestRingBufferDrainEmpty(t *testing.T) {
	r := newRingBuffer(2)
	if msgs := r.drainAll(); msgs != nil {
		t.Errorf("expected nil from empty drain, got %v", msgs)
	}
}

func TestRingBufferReuseAfterDrain(t *testing.T) {
	r := newRingBuffer(2)

	r.push(bufferedMsg{payload: []byte("a")})
	r.drainAll()

	r.push(bufferedMsg{payload: []byte("b")})
	r.push(bufferedMsg{payload: []byte("c")})
	msgs := r.drainAll()
	if len(msgs) != 2 || string(msgs[0].payload) != "b" || string(msgs[1].payload) != "c" {
		t.Errorf("got %v", msgs)
	}
}
