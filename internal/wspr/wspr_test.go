package wspr

import (
	"testing"

	"github.com/cwsl/wsprft8/internal/fec/conv"
)

func TestCallsignRoundTrip(t *testing.T) {
	cases := []string{"KG5YJE", "W1AW", "K1ABC", "N0CALL"}
	for _, c := range cases {
		n, err := PackCallsign(c)
		if err != nil {
			t.Fatalf("PackCallsign(%q): %v", c, err)
		}
		got := UnpackCallsign(n)
		if got != c {
			t.Errorf("PackCallsign/UnpackCallsign(%q) = %q", c, got)
		}
	}
}

func TestGridRoundTrip(t *testing.T) {
	for _, g := range []string{"EM13", "FN20", "AA00", "RR99"} {
		n, err := PackGrid(g)
		if err != nil {
			t.Fatalf("PackGrid(%q): %v", g, err)
		}
		if got := UnpackGrid(n); got != g {
			t.Errorf("PackGrid/UnpackGrid(%q) = %q", g, got)
		}
	}
}

func TestPowerRoundTrip(t *testing.T) {
	for _, dbm := range ValidPowers {
		field, err := PackPower(dbm)
		if err != nil {
			t.Fatalf("PackPower(%d): %v", dbm, err)
		}
		if got := UnpackPower(field); got != dbm {
			t.Errorf("PackPower/UnpackPower(%d) = %d", dbm, got)
		}
	}
}

func TestInvalidPowerRejected(t *testing.T) {
	if _, err := PackPower(5); err == nil {
		t.Fatal("expected error for dBm=5 (nu=5 is not in {0,3,7})")
	}
}

// TestStandardMessageRoundTrip exercises the scenario from spec.md's
// end-to-end WSPR test vector: a standard type-1 message with callsign
// "KG5YJE", grid "EM13", power 10 dBm.
func TestStandardMessageRoundTrip(t *testing.T) {
	payload, err := Pack("KG5YJE", "EM13", 10)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(payload) != DataBits {
		t.Fatalf("Pack returned %d bits, want %d", len(payload), DataBits)
	}

	ht := NewHashTable()
	msg, err := Unpack(payload, ht)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if msg.Type != MessageStandard {
		t.Errorf("Type = %v, want MessageStandard", msg.Type)
	}
	if msg.Callsign != "KG5YJE" {
		t.Errorf("Callsign = %q, want KG5YJE", msg.Callsign)
	}
	if msg.Grid != "EM13" {
		t.Errorf("Grid = %q, want EM13", msg.Grid)
	}
	if msg.DBm != 10 {
		t.Errorf("DBm = %d, want 10", msg.DBm)
	}
}

func TestStandardMessageStoresHash(t *testing.T) {
	payload, err := Pack("W1AW", "FN31", 23)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	ht := NewHashTable()
	if _, err := Unpack(payload, ht); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if ht.Size() != 1 {
		t.Errorf("hash table size = %d, want 1", ht.Size())
	}
}

func TestUnpackPrefixPrefixForm(t *testing.T) {
	got := unpackPrefix(10, "W1AW")
	want := "00A/W1AW"
	if got != want {
		t.Errorf("unpackPrefix(10, W1AW) = %q, want %q", got, want)
	}
}

func TestUnpackPrefixSuffixForm(t *testing.T) {
	got := unpackPrefix(60005, "W1AW") // nc=5 -> letter 'F'
	want := "W1AW/F"
	if got != want {
		t.Errorf("unpackPrefix(60005, W1AW) = %q, want %q", got, want)
	}
}

func TestUnpackPrefixNumericSuffixForm(t *testing.T) {
	got := unpackPrefix(60036+47, "W1AW") // nc-36 = 47 -> "%02d" of 4,7
	want := "W1AW/47"
	if got != want {
		t.Errorf("unpackPrefix = %q, want %q", got, want)
	}
}

// wsprScenario2TonePrefix is the first 24 tones of spec.md section 8's
// literal "KG5YJE EM13 10" acceptance vector (the source test vector is
// truncated with "..." beyond this point).
var wsprScenario2TonePrefix = []int{3, 3, 2, 2, 2, 2, 2, 2, 3, 0, 2, 0, 3, 1, 1, 0, 0, 0, 1, 2, 2, 1, 2, 1}

// TestScenario2TonesMatchPublishedSyncVector checks conv.SyncVector (this
// repository's transcription of the real WSPR sync pattern) against the
// only part of spec.md section 8's WSPR acceptance vector given in full:
// every tone's low bit (sync, tone = 2*data+sync) must agree with
// conv.SyncVector at the same position.
func TestScenario2TonesMatchPublishedSyncVector(t *testing.T) {
	for i, tone := range wsprScenario2TonePrefix {
		if got, want := uint8(tone&1), conv.SyncVector[i]; got != want {
			t.Fatalf("tone %d sync bit = %d, want %d (conv.SyncVector[%d])", i, got, want, i)
		}
	}
}

// TestScenario2RoundTrip exercises spec.md section 8's WSPR end-to-end
// path: encode "KG5YJE EM13 10", interleave with the tone = 2*data+sync
// convention against the real sync vector, run it back through the Fano
// decoder, and confirm it unpacks to the same message. Since the source
// test vector is truncated after 24 symbols, this cannot assert against
// the literal tone sequence past that prefix (see
// TestScenario2TonesMatchPublishedSyncVector for that check); this test
// instead confirms the full pipeline is self-consistent using the real
// sync vector rather than the repository's own arbitrary convention.
func TestScenario2RoundTrip(t *testing.T) {
	payload, err := Pack("KG5YJE", "EM13", 10)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	coded := conv.Encode(payload)
	interleaved := conv.Interleave(coded)

	tokens := make([]int, conv.SymbolCount)
	soft := make([]float32, conv.SymbolCount)
	for i, dataBit := range interleaved {
		sync := conv.SyncVector[i]
		tokens[i] = int(2*dataBit + sync)
		if dataBit == 1 {
			soft[i] = 8
		} else {
			soft[i] = -8
		}
	}

	for i := range wsprScenario2TonePrefix {
		if tokens[i] != wsprScenario2TonePrefix[i] {
			t.Fatalf("tone %d = %d, want %d from spec.md's literal vector", i, tokens[i], wsprScenario2TonePrefix[i])
		}
	}

	deinterleaved := make([]float32, conv.SymbolCount)
	k := 0
	for i := 0; i < 256 && k < conv.SymbolCount; i++ {
		j := bitReverse8(i)
		if j < conv.SymbolCount {
			deinterleaved[k] = soft[j]
			k++
		}
	}

	decoded, err := conv.Decode(deinterleaved, 10000, 60)
	if err != nil {
		t.Fatalf("conv.Decode: %v", err)
	}

	ht := NewHashTable()
	msg, err := Unpack(decoded[:PayloadBits], ht)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if msg.Callsign != "KG5YJE" || msg.Grid != "EM13" || msg.DBm != 10 {
		t.Fatalf("expected KG5YJE EM13 10, got %+v", msg)
	}
}

func bitReverse8(v int) int {
	r := 0
	for i := 0; i < 8; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

func TestShortInputRejected(t *testing.T) {
	if _, err := Unpack(make([]uint8, 10), nil); err == nil {
		t.Fatal("expected ShortInput error")
	}
}
