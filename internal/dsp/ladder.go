package dsp

import "math"

// Grid holds the FFT ladder for one decode pass: Data[shift][timeSlot][bin]
// is the complex FFT output. Only shift 0 needs every time slot (used for
// magnitude accumulation/peak picking) and it is built eagerly; higher shifts
// are built lazily, on first use, when a candidate actually needs them.
// FT8Window.cc's doWork runs the full per-shift FFT sweep once per window;
// this computes the same per-shift FFTs on demand and factors them behind a
// small struct instead of one monolithic function.
type Grid struct {
	Cfg     ModeConfig
	Data    [][][]complex128 // [shift][timeSlot][bin]
	Samples []complex128     // the captured window, retained for lazy shift FFTs
	planner FFTPlanner
}

// BuildLadder runs the FFT ladder over samples (a captured I/Q window for
// cfg's mode) at shift 0 only, which is all magnitude accumulation and peak
// picking need; BinsAtShift computes additional shifts on demand.
func BuildLadder(samples []complex128, cfg ModeConfig, planner FFTPlanner) *Grid {
	g := &Grid{Cfg: cfg, Samples: samples, planner: planner}
	g.Data = make([][][]complex128, cfg.Shifts)
	g.Data[0] = g.transformsAtShift(0)
	return g
}

// transformsAtShift runs successive FFTs of size Cfg.FFTSize starting at
// sample offset shift, advancing by FFTSize samples each time, up to
// Cfg.FFTsPerShift times or until samples run out (FT8Window.cc's ladder
// loop: "for (fftIndex = 0; fftIndex < FFTS_PER_SHIFT; fftIndex++)").
func (g *Grid) transformsAtShift(shift int) [][]complex128 {
	n := g.Cfg.FFTSize
	var slots [][]complex128
	for t := 0; t < g.Cfg.FFTsPerShift; t++ {
		start := shift + t*n
		if start+n > len(g.Samples) {
			break
		}
		slots = append(slots, g.planner.Transform(g.Samples[start:start+n]))
	}
	return slots
}

// BinsAtShift returns the per-time-slot FFT output for the given shift,
// computing and caching it on first use.
func (g *Grid) BinsAtShift(shift int) [][]complex128 {
	if shift < 0 || shift >= len(g.Data) {
		return nil
	}
	if g.Data[shift] == nil {
		g.Data[shift] = g.transformsAtShift(shift)
	}
	return g.Data[shift]
}

// AccumulateMagnitude sums |X[bin]| over every shift-0 time slot, the input
// to peak picking and noise-floor estimation (spec.md section 4.7).
func AccumulateMagnitude(g *Grid) []float64 {
	acc := make([]float64, g.Cfg.FFTSize)
	for _, slot := range g.Data[0] {
		for bin, v := range slot {
			acc[bin] += cmplxAbs(v)
		}
	}
	return acc
}

func cmplxAbs(v complex128) float64 {
	return math.Hypot(real(v), imag(v))
}
