package conv

import (
	"math/rand"
	"testing"
)

func randomMessage(r *rand.Rand) []uint8 {
	bits := make([]uint8, DataBits)
	for i := 0; i < DataBits-9; i++ { // leave the 9 tail bits zero
		if r.Intn(2) == 1 {
			bits[i] = 1
		}
	}
	return bits
}

func toSoft(bits []uint8) []float32 {
	soft := make([]float32, len(bits))
	for i, b := range bits {
		if b == 1 {
			soft[i] = 5.0
		} else {
			soft[i] = -5.0
		}
	}
	return soft
}

func TestInterleaveRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	bits := make([]uint8, SymbolCount)
	for i := range bits {
		bits[i] = uint8(r.Intn(2))
	}
	interleaved := Interleave(bits)
	back := Deinterleave(interleaved)
	for i := range bits {
		if back[i] != bits[i] {
			t.Fatalf("deinterleave mismatch at %d: want %d got %d", i, bits[i], back[i])
		}
	}
}

func TestConvolutionalRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for trial := 0; trial < 20; trial++ {
		msg := randomMessage(r)
		encoded := Encode(msg)
		if len(encoded) != SymbolCount {
			t.Fatalf("expected %d encoded bits, got %d", SymbolCount, len(encoded))
		}
		interleaved := Interleave(encoded)

		// Simulate a noiseless channel: convert interleaved hard bits to
		// soft values, then reverse the interleaver before decoding.
		soft := toSoft(interleaved)
		naturalOrder := make([]float32, SymbolCount)
		deinterleavedHard := Deinterleave(interleavedBitsFromSoft(soft))
		_ = deinterleavedHard
		naturalOrder = deinterleaveSoft(soft)

		decoded, err := Decode(naturalOrder, 10000, 60)
		if err != nil {
			t.Fatalf("trial %d: Decode: %v", trial, err)
		}
		for i := range msg {
			if decoded[i] != msg[i] {
				t.Fatalf("trial %d: mismatch at bit %d: want %d got %d", trial, i, msg[i], decoded[i])
			}
		}
	}
}

func interleavedBitsFromSoft(soft []float32) []uint8 {
	bits := make([]uint8, len(soft))
	for i, v := range soft {
		if v > 0 {
			bits[i] = 1
		}
	}
	return bits
}

// deinterleaveSoft applies the same index permutation as Deinterleave but
// over float32 soft values instead of hard bits.
func deinterleaveSoft(symbols []float32) []float32 {
	out := make([]float32, SymbolCount)
	k := 0
	for i := 0; i < 256 && k < SymbolCount; i++ {
		j := bitReverse8(i)
		if j < SymbolCount {
			out[k] = symbols[j]
			k++
		}
	}
	return out
}
