package report

import (
	"fmt"
	"io"

	"github.com/sweeney/chamber-logger/internal/logic"
)

// TextSink renders the replay stream as the line-oriented text report:
// one comma-separated pair per stored reading, then labeled aggregate
// lines per channel.
type TextSink struct {
	W io.Writer
}

// Reading writes one stored pair as a comma-separated line.
func (t *TextSink) Reading(index int, r logic.Reading) {
	fmt.Fprintf(t.W, "%d,%d\n", r.A, r.B)
}

// Summary writes the labeled aggregate lines for both channels.
func (t *TextSink) Summary(rep Report) {
	fmt.Fprintf(t.W, "Number of readings: %d\n", rep.Count)
	writeChannel(t.W, 1, rep.A)
	writeChannel(t.W, 2, rep.B)
}

func writeChannel(w io.Writer, n int, s ChannelStats) {
	fmt.Fprintf(w, "Highest temp %d: %d\n", n, s.Highest)
	fmt.Fprintf(w, "Average temp %d: %d\n", n, s.Average)
	fmt.Fprintf(w, "Energy used %d: %.2f joules\n", n, s.Energy)
}
