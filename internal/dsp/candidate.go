package dsp

// SampleRecord is one time-slot observation within an 11-bin window centred
// on a peak bin: the magnitude-weighted centroid offset, the total window
// magnitude, and the individual bin magnitudes (needed later by Tokenize).
// Grounded on original_source/FT8Window.cc's SampleRecord and doWork's
// per-shift, per-time-slot accumulation loop.
type SampleRecord struct {
	Centroid  float64
	Magnitude float64
	Valid     bool // Magnitude > 1.0, i.e. the centroid is well-defined
	Bins      []float64
}

// SpotCandidate is the per-(peak-bin) time series of SampleRecords collected
// across the full shift ladder, along with the validity and regression
// results derived from it.
type SpotCandidate struct {
	Cfg        ModeConfig
	PeakBin    int
	Records    []SampleRecord
	ValidStart int // index of the first record in the longest contiguous valid run
	ValidEnd   int // one past the last record in that run
	Regression Regression
}

// BuildCandidate collects the windowed time series around peakBin across
// every searched shift of the ladder (FT8Window.cc: shift 0, step 10,
// ..., < SHIFTS; WSPRWindow.cc: every shift, step 1), determines the
// longest contiguous run of well-defined centroids, and fits a regression
// line to it.
func BuildCandidate(g *Grid, peakBin int) *SpotCandidate {
	cfg := g.Cfg
	c := &SpotCandidate{Cfg: cfg, PeakBin: peakBin}

	offset := cfg.Window / 2
	for shift := 0; shift < cfg.Shifts; shift += cfg.ShiftStep {
		for _, slot := range g.BinsAtShift(shift) {
			bins := make([]float64, cfg.Window)
			var total float64
			for i := 0; i < cfg.Window; i++ {
				bin := wrapBin(peakBin-offset+i, cfg.FFTSize)
				m := cmplxAbs(slot[bin])
				bins[i] = m
				total += m
			}
			rec := SampleRecord{Magnitude: total, Bins: bins}
			if total > 1.0 {
				var weighted float64
				for i, m := range bins {
					weighted += float64(i-offset) * m
				}
				rec.Centroid = weighted / total
				rec.Valid = true
			}
			c.Records = append(c.Records, rec)
		}
	}

	c.findLongestValidRun()
	if c.IsValid() {
		y := make([]float64, 0, c.ValidEnd-c.ValidStart)
		for _, r := range c.Records[c.ValidStart:c.ValidEnd] {
			y = append(y, r.Centroid)
		}
		c.Regression = Fit(y)
	}
	return c
}

func wrapBin(bin, size int) int {
	bin %= size
	if bin < 0 {
		bin += size
	}
	return bin
}

func (c *SpotCandidate) findLongestValidRun() {
	bestStart, bestLen := 0, 0
	runStart, runLen := 0, 0
	for i, r := range c.Records {
		if r.Valid {
			if runLen == 0 {
				runStart = i
			}
			runLen++
			if runLen > bestLen {
				bestLen = runLen
				bestStart = runStart
			}
		} else {
			runLen = 0
		}
	}
	c.ValidStart = bestStart
	c.ValidEnd = bestStart + bestLen
}

// IsValid reports whether the candidate's longest contiguous valid run
// reaches the mode's nominal symbol count (spec.md section 3: "a candidate
// is valid iff the time series forms a contiguous run of at least 162 slots
// (WSPR) or 79 slots (FT8)").
func (c *SpotCandidate) IsValid() bool {
	return c.ValidEnd-c.ValidStart >= c.Cfg.NumSymbols
}

// Tokenize converts the candidate's valid run into a symbol sequence,
// following FT8SpotCandidate.cc's tokenize: per time slot, the baseline
// (y-intercept plus the mode's bias) identifies NumTones adjacent bins;
// each bin's magnitude has the window-wide per-bin average subtracted, and
// the loudest of those bins is the token. The baseline advances by the
// regression slope every time slot to track transmitter drift. Returns nil
// if the baseline ever walks the tone window out of the collected bins.
func Tokenize(c *SpotCandidate) []int {
	if !c.IsValid() {
		return nil
	}
	run := c.Records[c.ValidStart:c.ValidEnd]

	avg := make([]float64, c.Cfg.Window)
	for _, r := range run {
		for i, m := range r.Bins {
			avg[i] += m
		}
	}
	for i := range avg {
		avg[i] /= float64(len(run))
	}

	base := c.Regression.YIntercept + c.Cfg.BaselineBias
	offset := c.Cfg.Window / 2
	tokens := make([]int, len(run))
	for slot, r := range run {
		start := int(base-0.5) + offset
		best, bestMag := 0, -1e300
		for tone := 0; tone < c.Cfg.NumTones; tone++ {
			idx := start + tone
			if idx < 0 || idx >= c.Cfg.Window {
				return nil
			}
			m := r.Bins[idx] - avg[idx]
			if m > bestMag {
				bestMag = m
				best = tone
			}
		}
		tokens[slot] = best
		base += c.Regression.Slope
	}
	return tokens
}

// costasPattern is FT8's 7-tone sync array, repeated at symbol positions 0,
// 36, and 72 within the 79-symbol frame.
var costasPattern = [7]int{3, 1, 4, 0, 6, 5, 2}

// CostasScoreFT8 scores a candidate start offset against the three Costas
// arrays at positions start, start+36, start+72, counting matches out of 21
// (spec.md section 4.6; section 8's testable property expects exactly 21 for
// a correctly composed frame).
func CostasScoreFT8(tokens []int, start int) int {
	score := 0
	for _, base := range []int{start, start + 36, start + 72} {
		for i, want := range costasPattern {
			idx := base + i
			if idx < 0 || idx >= len(tokens) {
				continue
			}
			if tokens[idx] == want {
				score++
			}
		}
	}
	return score
}

// BestCostasOffset tries every starting offset in [0, len(tokens)-79] and
// returns the offset with the highest Costas score, along with that score.
func BestCostasOffset(tokens []int) (offset, score int) {
	bestOffset, bestScore := 0, -1
	limit := len(tokens) - 79
	for start := 0; start <= limit; start++ {
		s := CostasScoreFT8(tokens, start)
		if s > bestScore {
			bestScore = s
			bestOffset = start
		}
	}
	return bestOffset, bestScore
}

// SyncScoreWSPR scores a WSPR token sequence against sync, the fixed 162-bit
// interleaved sync vector (conv.SyncVector): each token's sync-correlated
// bit is its low bit (tone = 2*data + sync, spec.md section 4.6), so the
// score is how many positions agree with sync. Takes sync as a parameter
// rather than importing internal/fec/conv directly, keeping this package's
// dependency graph one-directional (dsp has no fec dependency).
func SyncScoreWSPR(tokens []int, sync []uint8) int {
	score := 0
	for i, tone := range tokens {
		if i >= len(sync) {
			break
		}
		if uint8(tone&1) == sync[i] {
			score++
		}
	}
	return score
}
