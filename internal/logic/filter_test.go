package logic

import "testing"

func TestFilterAcceptsFirstReading(t *testing.T) {
	f := NewFilter(DefaultThreshold)

	candidates := []Reading{
		{A: 0, B: 0},
		{A: 200, B: -40},
		{A: -32768, B: 32767},
	}
	for _, c := range candidates {
		if !f.Accept(c, nil) {
			t.Errorf("Accept(%v, nil): got false, want true", c)
		}
	}
}

func TestFilterThresholdBoundary(t *testing.T) {
	f := NewFilter(10)
	prev := Reading{A: 70, B: 72}

	tests := []struct {
		name      string
		candidate Reading
		want      bool
	}{
		{"identical", Reading{A: 70, B: 72}, true},
		{"both within", Reading{A: 75, B: 78}, true},
		{"delta exactly threshold", Reading{A: 80, B: 82}, true},
		{"delta exactly threshold negative", Reading{A: 60, B: 62}, true},
		{"channel A one past threshold", Reading{A: 81, B: 72}, false},
		{"channel B one past threshold", Reading{A: 70, B: 83}, false},
		{"channel A one past threshold negative", Reading{A: 59, B: 72}, false},
		{"both past threshold", Reading{A: 200, B: 200}, false},
		{"A within B past", Reading{A: 74, B: 120}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Accept(tt.candidate, &prev); got != tt.want {
				t.Errorf("Accept(%v, %v): got %v, want %v", tt.candidate, prev, got, tt.want)
			}
		})
	}
}

func TestFilterSpikeScenario(t *testing.T) {
	// The spike (200,76) against baseline (74,76) has delta 126 on
	// channel A and must be rejected.
	f := NewFilter(DefaultThreshold)
	prev := Reading{A: 74, B: 76}

	if f.Accept(Reading{A: 200, B: 76}, &prev) {
		t.Error("expected spike to be rejected")
	}

	// The next plausible sample is compared against the same baseline,
	// not the rejected spike.
	if !f.Accept(Reading{A: 77, B: 79}, &prev) {
		t.Error("expected follow-up sample to be accepted")
	}
}
