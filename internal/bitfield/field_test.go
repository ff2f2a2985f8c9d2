package bitfield

import (
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	for n := 1; n <= 64; n++ {
		maxV := uint64(1) << uint(n)
		samples := []uint64{0, maxV - 1}
		if n > 1 {
			samples = append(samples, maxV/2)
		}
		for _, v := range samples {
			f, err := NewFromUint(n, v)
			if err != nil {
				t.Fatalf("NewFromUint(%d,%d): %v", n, v, err)
			}
			if got := f.Uint(); n <= 64 && got != v {
				t.Errorf("n=%d v=%d: round-trip got %d", n, v, got)
			}
			// byte-view MSB-first must equal bit-vector MSB-first
			bytes := f.Bytes()
			vec := f.Bool()
			for i, b := range vec {
				byteVal := bytes[i/8]
				bit := (byteVal >> uint(7-(i%8))) & 1
				want := uint8(0)
				if b {
					want = 1
				}
				if bit != want {
					t.Fatalf("n=%d: byte/vector mismatch at bit %d", n, i)
				}
			}
		}
	}
}

func TestRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		n := 1 + r.Intn(64)
		var v uint64
		if n == 64 {
			v = r.Uint64()
		} else {
			v = r.Uint64() % (uint64(1) << uint(n))
		}
		f, err := NewFromUint(n, v)
		if err != nil {
			t.Fatalf("NewFromUint(%d,%d): %v", n, v, err)
		}
		if got := f.Uint(); got != v {
			t.Errorf("n=%d v=%d: got %d", n, v, got)
		}
	}
}

func TestGraySymmetry(t *testing.T) {
	for v := 0; v < 8; v++ {
		if got := ToGray(ToGray(v)); got != v {
			t.Errorf("ToGray(ToGray(%d)) = %d, want %d", v, got, v)
		}
	}
}

func TestOverlaySelectorEquivalence(t *testing.T) {
	cq, _ := NewFromUint(28, 2) // special token CQ = 2
	r1a, _ := NewFromUint(1, 0)
	kg5yje, _ := NewFromUint(28, 3000000) // arbitrary 28-bit value standing in for a callsign
	r1b, _ := NewFromUint(1, 0)
	rr, _ := NewFromUint(1, 0)
	em13, _ := NewFromUint(15, 100)
	i3, _ := NewFromUint(3, 1)

	msg, err := BuildSchema(MessageStandard, []*Field{cq, r1a, kg5yje, r1b, rr, em13, i3})
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}

	got := Overlay(msg, MessageStandard, "c28", 2)
	want := kg5yje.Bool()
	if len(got) != len(want) {
		t.Fatalf("overlay length = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("overlay bit %d mismatch", i)
		}
	}
}

func TestOverlayOutOfRangeReturnsEmpty(t *testing.T) {
	cq, _ := NewFromUint(28, 2)
	if got := Overlay(cq, MessageType(99), "c28", 1); got != nil {
		t.Errorf("expected empty overlay for unknown type, got %v", got)
	}
}
