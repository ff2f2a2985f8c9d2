// Package sample implements the baseband source contract (spec.md section
// 6): an interleaved little-endian float32 I/Q stream read at the mode's
// base-band rate, captured in fixed-duration windows, with an optional
// binary dump of each window. Grounded on the teacher's
// clients/go/pcm_decoder.go for the binary-header/little-endian idiom
// (magic bytes, encoding/binary field-by-field parsing) and
// klauspost/compress/zstd usage.
package sample

import (
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cwsl/wsprft8/internal/decodeerr"
)

// Source reads captured I/Q windows for one mode.
type Source interface {
	// Next blocks until a full window has been captured (or a short
	// read/EOF occurs) and returns it, or an error. On sustained EOF,
	// callers should retry after a short delay (spec.md section 4.8's
	// shutdown contract) rather than treating it as fatal.
	Next() (*Window, error)
}

// Window is one captured, time-stamped baseband I/Q buffer. ID correlates a
// window across logs, dumps, and spot reports derived from it (spec.md
// section 9's correlation-ID note), generated fresh by each Source.
type Window struct {
	ID        string
	StartTime time.Time
	Samples   []complex128 // length = SampleRate * CaptureSeconds
}

// StdinSource reads interleaved little-endian float32 I/Q pairs from r,
// capturing CaptureSeconds worth of samples at SampleRate and then
// discarding DiscardSeconds worth before the next window — spec.md section
// 4.8's "capture 116s; discard 4s" (WSPR) / "capture 14s; discard 1s" (FT8)
// ingestion cadence.
type StdinSource struct {
	r              io.Reader
	sampleRate     int
	captureSamples int
	discardSamples int
	buf            []byte
}

// NewStdinSource builds a Source for a mode with the given sample rate (Hz)
// and capture/discard durations (seconds).
func NewStdinSource(r io.Reader, sampleRateHz int, captureSeconds, discardSeconds float64) *StdinSource {
	return &StdinSource{
		r:              r,
		sampleRate:     sampleRateHz,
		captureSamples: int(float64(sampleRateHz) * captureSeconds),
		discardSamples: int(float64(sampleRateHz) * discardSeconds),
	}
}

// Next reads one capture window (CaptureSeconds at SampleRate, as
// interleaved float32 I/Q pairs) and discards the following DiscardSeconds
// worth of samples.
func (s *StdinSource) Next() (*Window, error) {
	start := time.Now()
	samples, err := s.readComplex(s.captureSamples)
	if err != nil {
		return nil, err
	}
	if s.discardSamples > 0 {
		if _, err := s.readComplex(s.discardSamples); err != nil && err != io.EOF {
			return nil, err
		}
	}
	return &Window{ID: uuid.New().String(), StartTime: start, Samples: samples}, nil
}

func (s *StdinSource) readComplex(n int) ([]complex128, error) {
	need := n * 8 // 2 x float32 per sample
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]
	if _, err := io.ReadFull(s.r, buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, decodeerr.Wrap("sample.readComplex", decodeerr.ShortInput, err)
		}
		return nil, err
	}
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		re := float32FromLE(buf[i*8 : i*8+4])
		im := float32FromLE(buf[i*8+4 : i*8+8])
		out[i] = complex(float64(re), float64(im))
	}
	return out, nil
}

func float32FromLE(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
