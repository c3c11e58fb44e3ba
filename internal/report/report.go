// Package report replays the stored reading log and computes per-channel
// summary statistics and a simplified thermal-energy estimate.
package report

import (
	"errors"
	"fmt"

	"github.com/sweeney/chamber-logger/internal/logic"
)

// Physical constants for the closed-chamber energy estimate. The air
// mass is fixed, derived from the enclosure volume and air density, not
// sensed.
const (
	SpecificHeatCapacity = 1.005 // dry air, kJ/(kg·K)
	AirDensity           = 1.225 // kg/m³
	ChamberVolume        = 0.5   // m³
)

// AirMass is the fixed mass of air heated inside the chamber.
const AirMass = AirDensity * ChamberVolume

// ErrNoData is returned when the log holds no readings.
var ErrNoData = errors.New("report: no data logged")

// ChannelStats holds the aggregate statistics for one channel.
// Only the maximum is tracked, no minimum.
type ChannelStats struct {
	Highest int
	Total   int
	First   int
	Last    int
	Average int     // Total / Count, truncating
	Energy  float64 // SpecificHeatCapacity × AirMass × |Last − First|
}

// Report is the aggregate result of one full scan of the log.
type Report struct {
	Count int
	A     ChannelStats
	B     ChannelStats
}

// Source is the subset of the store a report reads. It is never mutated.
type Source interface {
	Get(i int) (logic.Reading, error)
	Len() int
}

// Sink receives the streamed replay: every stored reading in index
// order, then the aggregate report.
type Sink interface {
	Reading(index int, r logic.Reading)
	Summary(rep Report)
}

// Generate scans the log once and returns the aggregate report without
// streaming individual readings.
func Generate(src Source) (Report, error) {
	return Replay(src, nil)
}

// Replay streams every stored reading to the sink in index order, then
// computes and delivers the aggregate report. Returns ErrNoData on an
// empty log. A read failure mid-scan aborts the replay; lines already
// streamed remain valid.
func Replay(src Source, sink Sink) (Report, error) {
	n := src.Len()
	if n == 0 {
		return Report{}, ErrNoData
	}

	var rep Report
	rep.Count = n
	for i := 0; i < n; i++ {
		r, err := src.Get(i)
		if err != nil {
			return Report{}, fmt.Errorf("replay record %d: %w", i, err)
		}
		if sink != nil {
			sink.Reading(i, r)
		}
		accumulate(&rep.A, int(r.A), i == 0)
		accumulate(&rep.B, int(r.B), i == 0)
	}

	finish(&rep.A, n)
	finish(&rep.B, n)

	if sink != nil {
		sink.Summary(rep)
	}
	return rep, nil
}

func accumulate(s *ChannelStats, v int, first bool) {
	if first {
		s.First = v
		s.Highest = v
	}
	if v > s.Highest {
		s.Highest = v
	}
	s.Total += v
	s.Last = v
}

func finish(s *ChannelStats, count int) {
	s.Average = s.Total / count
	rise := s.Last - s.First
	if rise < 0 {
		rise = -rise
	}
	s.Energy = SpecificHeatCapacity * AirMass * float64(rise)
}
