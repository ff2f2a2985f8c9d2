package sample

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func encodeFloat32Pairs(pairs [][2]float32) []byte {
	buf := make([]byte, len(pairs)*8)
	for i, p := range pairs {
		binary.LittleEndian.PutUint32(buf[i*8:i*8+4], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(buf[i*8+4:i*8+8], math.Float32bits(p[1]))
	}
	return buf
}

func TestStdinSourceReadsWindow(t *testing.T) {
	captureSamples := 4
	discardSamples := 2
	pairs := make([][2]float32, captureSamples+discardSamples)
	for i := range pairs {
		pairs[i] = [2]float32{float32(i), float32(-i)}
	}
	r := bytes.NewReader(encodeFloat32Pairs(pairs))

	src := NewStdinSource(r, 1, float64(captureSamples), float64(discardSamples))
	w, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(w.Samples) != captureSamples {
		t.Fatalf("len(Samples) = %d, want %d", len(w.Samples), captureSamples)
	}
	for i, s := range w.Samples {
		if real(s) != float64(i) || imag(s) != float64(-i) {
			t.Errorf("Samples[%d] = %v, want (%d,%d)", i, s, i, -i)
		}
	}
	if r.Len() != 0 {
		t.Errorf("expected discard samples to be consumed, %d bytes remain", r.Len())
	}
}

func TestStdinSourceShortReadIsWrapped(t *testing.T) {
	r := bytes.NewReader(encodeFloat32Pairs([][2]float32{{1, 2}}))
	src := NewStdinSource(r, 1, 4, 0)
	if _, err := src.Next(); err == nil {
		t.Fatal("expected error on short read")
	}
}

func TestDumpRoundTripUncompressed(t *testing.T) {
	samples := []complex128{complex(1.5, -2.5), complex(0, 0), complex(-3.25, 4.75)}
	var buf bytes.Buffer
	if err := WriteDump(&buf, WindowTypeFT8, 14074000, samples, false); err != nil {
		t.Fatalf("WriteDump: %v", err)
	}
	typ, freq, got, err := ReadDump(&buf, false)
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}
	if typ != WindowTypeFT8 {
		t.Errorf("typ = %v, want WindowTypeFT8", typ)
	}
	if freq != 14074000 {
		t.Errorf("freq = %v, want 14074000", freq)
	}
	if len(got) != len(samples) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(samples))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], samples[i])
		}
	}
}

func TestDumpRoundTripCompressed(t *testing.T) {
	samples := []complex128{complex(1, 1), complex(2, 2), complex(3, 3)}
	var buf bytes.Buffer
	if err := WriteDump(&buf, WindowTypeWSPR, 7040000, samples, true); err != nil {
		t.Fatalf("WriteDump: %v", err)
	}
	typ, freq, got, err := ReadDump(&buf, true)
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}
	if typ != WindowTypeWSPR || freq != 7040000 {
		t.Errorf("typ/freq = %v/%v, want WindowTypeWSPR/7040000", typ, freq)
	}
	if len(got) != len(samples) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(samples))
	}
}
