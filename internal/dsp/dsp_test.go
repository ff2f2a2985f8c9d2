package dsp

import (
	"math"
	"testing"

	"github.com/cwsl/wsprft8/internal/fec/conv"
)

func TestFFTPlannerSizeAndDC(t *testing.T) {
	p := NewFFTPlanner(8)
	if p.Size() != 8 {
		t.Fatalf("Size() = %d, want 8", p.Size())
	}
	samples := make([]complex128, 8)
	for i := range samples {
		samples[i] = complex(1, 0)
	}
	out := p.Transform(samples)
	if len(out) != 8 {
		t.Fatalf("Transform returned %d bins, want 8", len(out))
	}
	if math.Abs(real(out[0])-8) > 1e-9 {
		t.Errorf("DC bin = %v, want 8", out[0])
	}
}

func TestRegressionFitOnStraightLine(t *testing.T) {
	y := []float64{1, 3, 5, 7, 9}
	r := Fit(y)
	if math.Abs(r.Slope-2) > 1e-9 {
		t.Errorf("Slope = %v, want 2", r.Slope)
	}
	if math.Abs(r.YIntercept-1) > 1e-9 {
		t.Errorf("YIntercept = %v, want 1", r.YIntercept)
	}
	if r.MinCentroid != 1 || r.MaxCentroid != 9 {
		t.Errorf("MinCentroid/MaxCentroid = %v/%v, want 1/9", r.MinCentroid, r.MaxCentroid)
	}
}

func TestNoiseFloorIsLowPercentile(t *testing.T) {
	acc := make([]float64, 512)
	for i := range acc {
		acc[i] = 1.0
	}
	acc[256] = 1000.0 // a strong signal bin, should not pollute the noise estimate
	noise := NoiseFloor(FT8, acc)
	if noise != 1.0 {
		t.Errorf("NoiseFloor = %v, want 1.0", noise)
	}
}

func TestSNRFormula(t *testing.T) {
	got := SNR(FT8, 100, 1)
	want := 20*math.Log10(100.0) - 20*math.Log10(1.0) - 17.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("SNR = %v, want %v", got, want)
	}
}

func TestPeakListOrdersByMagnitude(t *testing.T) {
	acc := []float64{1, 5, 2, 9, 3}
	peaks := PeakList(WSPR, acc, 2)
	if len(peaks) != 2 {
		t.Fatalf("len(peaks) = %d, want 2", len(peaks))
	}
	if peaks[0].Bin != 3 || peaks[1].Bin != 1 {
		t.Errorf("peaks = %+v, want bins [3, 1]", peaks)
	}
}

func TestCostasScorePerfectMatch(t *testing.T) {
	tokens := make([]int, 79)
	for i, v := range costasPattern {
		tokens[i] = v
		tokens[36+i] = v
		tokens[72+i] = v
	}
	if score := CostasScoreFT8(tokens, 0); score != 21 {
		t.Errorf("CostasScoreFT8 = %d, want 21", score)
	}
}

func TestSyncScoreWSPRPerfectMatch(t *testing.T) {
	tokens := make([]int, conv.SymbolCount)
	for i, sync := range conv.SyncVector {
		tokens[i] = int(sync) // data bit 0, sync bit as given -> tone = sync
	}
	if score := SyncScoreWSPR(tokens, conv.SyncVector[:]); score != conv.SymbolCount {
		t.Errorf("SyncScoreWSPR = %d, want %d", score, conv.SymbolCount)
	}
}

// TestBuildCandidateFromSyntheticSignal constructs a ladder whose samples
// carry a synthetic tone at a single bin across 172 FFT lengths of samples
// (shift 0 keeps FFTsPerShift = 164 of them, more than WSPR's 162-symbol
// minimum) and checks that a candidate built around that
// bin is valid with a near-zero slope.
func TestBuildCandidateFromSyntheticSignal(t *testing.T) {
	cfg := WSPR
	totalSamples := cfg.FFTSize * (cfg.NumSymbols + 10)
	samples := make([]complex128, totalSamples)
	targetBin := 20
	for n := range samples {
		theta := 2 * math.Pi * float64(targetBin) * float64(n) / float64(cfg.FFTSize)
		samples[n] = complex(math.Cos(theta), math.Sin(theta))
	}
	g := BuildLadder(samples, cfg, NewFFTPlanner(cfg.FFTSize))
	c := BuildCandidate(g, targetBin)
	if !c.IsValid() {
		t.Fatalf("candidate not valid: run length %d, want >= %d", c.ValidEnd-c.ValidStart, cfg.NumSymbols)
	}
	if math.Abs(c.Regression.Slope) > 0.5 {
		t.Errorf("Slope = %v, want near 0 for a stationary tone", c.Regression.Slope)
	}
}
