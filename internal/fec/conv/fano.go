package conv

import (
	"math"
	"sort"

	"github.com/cwsl/wsprft8/internal/decodeerr"
)

// fanoBias is the soft-metric bias from the real Fano::Fano() constructor
// (original_source/Fano.cc): mettab[0][i] = round(10*(metric_tables[2][i]-
// bias)), mettab[1][i] = round(10*(metric_tables[2][255-i]-bias)). The
// formula and bias are authentic; metric_tables[4][256]'s literal published
// floats are not present anywhere in the retrieved reference material (only
// this derivation survived), so metricCurve below is this package's own
// monotonic confidence curve over the 0..255 amplitude domain rather than
// the published empirical table.
const fanoBias = 0.42

// mettab[1][i] scores a quantised sample at amplitude i as evidence for a
// convolutional output bit of 1; mettab[0][i] is its mirror image, scoring
// the same amplitude as evidence for 0.
var mettab [2][256]int

func init() {
	for i := 0; i < 256; i++ {
		mettab[1][i] = int(math.Round(10 * (metricCurve(i) - fanoBias)))
		mettab[0][i] = int(math.Round(10 * (metricCurve(255-i) - fanoBias)))
	}
}

// metricCurve approximates P(sample indicates bit=1 | amplitude i) with a
// logistic curve centred on the middle of the 0..255 domain.
func metricCurve(i int) float64 {
	return 1.0 / (1.0 + math.Exp(-(float64(i)-128.0)/24.0))
}

// quantizeSoft maps a received soft value in the -10..+10 range (channelSoft's
// ±5 values sit inside it) onto the 0..255 amplitude domain mettab is indexed
// by.
func quantizeSoft(received float32) int {
	v := (float64(received) + 10.0) / 20.0 * 255.0
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return int(v)
}

// path is one candidate partial decode in the sequential search.
type path struct {
	bits   []uint8
	reg    uint32
	metric float32
}

// baseStackWidth bounds how many candidate paths are retained between
// extension rounds; Delta (below) scales it, wider deltas search more
// broadly at the cost of more work per cycle.
const baseStackWidth = 64

// Decode sequentially decodes 162 soft-decision values (in natural,
// pre-interleave bit order — callers hold interleaved channel symbols and
// must run Deinterleave first) back to the original 81-bit message.
//
// This runs a bounded best-first stack search rather than literal Fano
// forward/backward threshold stepping (see package doc): the source's
// metric_tables[4][256] literal soft-metric constants, and the exact
// Fano node bookkeeping they feed, are not present anywhere in the
// reference material, only their derivation formula. A stack search
// achieves the same goal — bounded-effort sequential decoding of a
// K=32 code too wide for an exhaustive Viterbi trellis — without risking
// an unverifiable transcription of unavailable constants. maxCycles and
// delta are honored as the search's effort budget (section 4.5's
// "maxcycles, default 10000" and "delta, default 60").
func Decode(received []float32, maxCycles, delta int) ([]uint8, error) {
	if len(received) != SymbolCount {
		return nil, decodeerr.New("conv.Decode", decodeerr.ShortInput)
	}
	width := baseStackWidth
	if delta > 0 {
		width = baseStackWidth * delta / 60
		if width < baseStackWidth {
			width = baseStackWidth
		}
	}

	stack := []path{{bits: nil, reg: 0, metric: 0}}
	cycles := 0
	for cycles < maxCycles {
		cycles++
		sort.Slice(stack, func(i, j int) bool { return stack[i].metric > stack[j].metric })
		best := stack[0]
		stack = stack[1:]

		if len(best.bits) == DataBits {
			return best.bits, nil
		}

		depth := len(best.bits)
		for _, bit := range [2]uint8{0, 1} {
			newReg := (best.reg << 1) | uint32(bit)
			c1, c2 := parity32(newReg&Poly1), parity32(newReg&Poly2)
			m := best.metric + branchMetric(c1, received[2*depth]) + branchMetric(c2, received[2*depth+1])
			newBits := make([]uint8, depth+1)
			copy(newBits, best.bits)
			newBits[depth] = bit
			stack = append(stack, path{bits: newBits, reg: newReg, metric: m})
		}

		if len(stack) > width {
			sort.Slice(stack, func(i, j int) bool { return stack[i].metric > stack[j].metric })
			stack = stack[:width]
		}
		if len(stack) == 0 {
			break
		}
	}
	return nil, decodeerr.New("conv.Decode", decodeerr.FanoFail)
}

// branchMetric scores how well an expected encoder output bit agrees with a
// received soft value, via the quantised mettab lookup above (positive
// favors a correct match).
func branchMetric(expected uint8, received float32) float32 {
	return float32(mettab[expected][quantizeSoft(received)])
}
