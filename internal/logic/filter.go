package logic

// DefaultThreshold is the maximum allowed per-channel delta between a
// candidate reading and the last stored reading, in whole degrees.
const DefaultThreshold = 10

// Filter rejects physically implausible samples by comparing them
// against the most recently stored reading. It holds no state of its
// own: a run of consecutive rejections is each compared against the
// same last-accepted baseline.
type Filter struct {
	Threshold int
}

// NewFilter creates a filter with the given per-channel delta threshold.
func NewFilter(threshold int) Filter {
	return Filter{Threshold: threshold}
}

// Accept reports whether the candidate is plausible relative to prev.
// A nil prev (empty log) is always accepted. A delta exactly equal to
// the threshold is accepted.
func (f Filter) Accept(candidate Reading, prev *Reading) bool {
	if prev == nil {
		return true
	}
	return delta(candidate.A, prev.A) <= f.Threshold &&
		delta(candidate.B, prev.B) <= f.Threshold
}

func delta(a, b int16) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d
}
