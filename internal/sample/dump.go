package sample

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

// DumpHeaderSize is the fixed 14-byte header preceding every persisted
// window: a 4-byte type, an 8-byte frequency, then two reserved (zero) bytes.
const DumpHeaderSize = 14

// WindowType distinguishes the mode of a dumped window, encoded as the
// header's 4-byte type field.
type WindowType uint32

const (
	WindowTypeWSPR WindowType = 0
	WindowTypeFT8  WindowType = 1
)

// WriteDump writes w's 14-byte header (little-endian: bytes 0-3 the type,
// 4-11 the dial frequency in Hz as a float64, 12-13 zero; there is no
// separate reserved block ahead of the type field) followed by the raw interleaved I/Q floats, to w's
// naming convention "<prefix><sample_label>.bin" (the caller builds the
// filename; this only writes the bytes). If zstd is true, the payload after
// the header is compressed with klauspost/compress/zstd, matching the
// teacher's optional-compression convention in pcm_decoder.go/kiwi_wspr.
func WriteDump(out io.Writer, typ WindowType, dialFreqHz float64, samples []complex128, useZstd bool) error {
	header := make([]byte, DumpHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], uint32(typ))
	binary.LittleEndian.PutUint64(header[4:12], math.Float64bits(dialFreqHz))
	// bytes 12-13 remain reserved/zero.
	if _, err := out.Write(header); err != nil {
		return fmt.Errorf("sample.WriteDump: header: %w", err)
	}

	payload := make([]byte, len(samples)*8)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(payload[i*8:i*8+4], math.Float32bits(float32(real(s))))
		binary.LittleEndian.PutUint32(payload[i*8+4:i*8+8], math.Float32bits(float32(imag(s))))
	}

	if !useZstd {
		_, err := out.Write(payload)
		return err
	}

	enc, err := zstd.NewWriter(out)
	if err != nil {
		return fmt.Errorf("sample.WriteDump: zstd writer: %w", err)
	}
	if _, err := enc.Write(payload); err != nil {
		enc.Close()
		return fmt.Errorf("sample.WriteDump: zstd write: %w", err)
	}
	return enc.Close()
}

// ReadDump reads a window previously written by WriteDump. If useZstd is
// true, in is wrapped in a zstd decoder before the payload is parsed.
func ReadDump(in io.Reader, useZstd bool) (typ WindowType, dialFreqHz float64, samples []complex128, err error) {
	header := make([]byte, DumpHeaderSize)
	if _, err = io.ReadFull(in, header); err != nil {
		return 0, 0, nil, fmt.Errorf("sample.ReadDump: header: %w", err)
	}
	typ = WindowType(binary.LittleEndian.Uint32(header[0:4]))
	dialFreqHz = math.Float64frombits(binary.LittleEndian.Uint64(header[4:12]))

	reader := in
	if useZstd {
		dec, derr := zstd.NewReader(in)
		if derr != nil {
			return 0, 0, nil, fmt.Errorf("sample.ReadDump: zstd reader: %w", derr)
		}
		defer dec.Close()
		reader = dec.IOReadCloser()
	}

	payload, rerr := io.ReadAll(reader)
	if rerr != nil {
		return 0, 0, nil, fmt.Errorf("sample.ReadDump: payload: %w", rerr)
	}
	n := len(payload) / 8
	samples = make([]complex128, n)
	for i := 0; i < n; i++ {
		re := math.Float32frombits(binary.LittleEndian.Uint32(payload[i*8 : i*8+4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(payload[i*8+4 : i*8+8]))
		samples[i] = complex(float64(re), float64(im))
	}
	return typ, dialFreqHz, samples, nil
}
