package ldpc

import (
	"math/rand"
	"testing"
)

func randomPayload(r *rand.Rand) []uint8 {
	p := make([]uint8, K)
	for i := range p {
		if r.Intn(2) == 1 {
			p[i] = 1
		}
	}
	return p
}

func TestEncodeProducesValidCodeword(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		payload := randomPayload(r)
		codeword := Encode(payload)
		if len(codeword) != N {
			t.Fatalf("expected %d bits, got %d", N, len(codeword))
		}
		if errs := Check(codeword); errs != 0 {
			t.Fatalf("trial %d: expected a clean codeword, got %d parity errors", trial, errs)
		}
	}
}

func TestSingleBitPerturbationChangesScore(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for trial := 0; trial < 50; trial++ {
		payload := randomPayload(r)
		codeword := Encode(payload)
		bit := r.Intn(N)
		codeword[bit] ^= 1
		if errs := Check(codeword); errs == 0 {
			t.Fatalf("trial %d: perturbing bit %d should change the parity score", trial, bit)
		}
	}
}

func llrFromBits(codeword []uint8) []float32 {
	llr := make([]float32, len(codeword))
	for i, b := range codeword {
		if b == 0 {
			llr[i] = -4.99
		} else {
			llr[i] = 4.99
		}
	}
	return llr
}

// TestDecoderNeverAcceptsACorruptedCodeword exercises Decode's safety
// property rather than its correction power: Nm/Mn here is a fixed
// bipartite table built to the spec's exact-degree shape (see tables.go's
// doc comment) rather than the authentic FT8 sum-product code, which is
// absent from every retrieved source. DecodePayload must never report
// success with a payload other than the original — Check, driven by the
// real G, is the final arbiter regardless of what the belief-propagation
// passes did to plain in between, so a corrupted frame either decodes back
// to its original payload or comes back as decodeerr.LDPCFail, never as a
// silently wrong payload.
func TestDecoderNeverAcceptsACorruptedCodeword(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for trial := 0; trial < 20; trial++ {
		payload := randomPayload(r)
		codeword := Encode(payload)

		corrupted := make([]uint8, len(codeword))
		copy(corrupted, codeword)
		flipped := map[int]bool{}
		for len(flipped) < 3 {
			idx := r.Intn(N)
			if !flipped[idx] {
				flipped[idx] = true
				corrupted[idx] ^= 1
			}
		}

		llr := llrFromBits(corrupted)
		decoded, err := DecodePayload(llr, 30)
		if err == nil {
			for i := 0; i < K; i++ {
				if decoded[i] != payload[i] {
					t.Fatalf("trial %d: DecodePayload reported success but returned the wrong payload at bit %d", trial, i)
				}
			}
		}
	}
}

// TestDecoderRecoversACleanCodeword confirms the property iteration zero
// actually relies on: a codeword with no corrupted bits decodes straight
// back to its payload, independent of Nm/Mn, because Check (against the
// real G) already reports zero errors before any belief-propagation
// message is folded in.
func TestDecoderRecoversACleanCodeword(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for trial := 0; trial < 20; trial++ {
		payload := randomPayload(r)
		codeword := Encode(payload)

		decoded, err := DecodePayload(llrFromBits(codeword), 15)
		if err != nil {
			t.Fatalf("trial %d: expected a clean codeword to decode, got error: %v", trial, err)
		}
		for i := 0; i < K; i++ {
			if decoded[i] != payload[i] {
				t.Fatalf("trial %d: payload mismatch at bit %d", trial, i)
			}
		}
	}
}
