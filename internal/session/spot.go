// Package session implements the window controller (spec.md section 4.8): a
// single producer reading captured windows from a sample.Source, a single
// decode worker consuming them over a bounded, drop-newest queue, and a
// Manager coordinating several such sessions across bands. Grounded on
// kiwi_wspr/wspr_coordinator.go (the Start/Stop/recordingLoop shape) and
// coordinator_manager.go (the multi-band map-of-coordinators pattern),
// generalized from "shell out to wsprd, parse its stdout" to an in-process
// decode pipeline per section 4.8's concurrency contract.
package session

import "time"

// Spot is a deduplicated decode observation, ready for the spot reporter.
type Spot struct {
	Callsign         string
	Grid             string
	FreqHz           float64
	TimeStart        time.Time
	SNRDB            float64
	DBm              int // WSPR power, 0 for FT8
	Occurrence       int
	AccumulatedShift float64
}

// Decoded is one raw decode result from a single SpotCandidate, before
// dedup, as produced by a DecodeFunc.
type Decoded struct {
	Callsign string
	Grid     string
	FreqHz   float64
	SNRDB    float64
	DBm      int
	Shift    float64
}
