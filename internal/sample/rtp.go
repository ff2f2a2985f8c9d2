// Package sample's RTPSource implements the baseband source contract over an
// RTP/UDP stream rather than a plain stdin pipe, grounded on audio.go's
// AudioReceiver: a UDP socket read loop parsing packets with
// github.com/pion/rtp and routing payload by SSRC. ka9q-radio-family radiod
// instances stream PCM (here, baseband I/Q) over RTP multicast; this gives
// cmd/ft8d and cmd/wsprd a second ingestion path alongside StdinSource
// without requiring an external pipe.
package sample

import (
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/pion/rtp"
)

// RTPSource reads one RTP stream (filtered by SSRC) of interleaved
// little-endian float32 I/Q payload and assembles it into capture windows,
// the same cadence StdinSource uses.
type RTPSource struct {
	conn           *net.UDPConn
	ssrc           uint32
	sampleRate     int
	captureSamples int
	discardSamples int

	carry []byte // payload bytes received but not yet consumed by a window
}

// NewRTPSource binds a UDP socket at listenAddr (e.g. "0.0.0.0:5004") and
// filters incoming RTP packets to ssrc, the session identifier radiod
// assigns one multicast stream, matching routeAudio's per-session dispatch.
func NewRTPSource(listenAddr string, ssrc uint32, sampleRateHz int, captureSeconds, discardSeconds float64) (*RTPSource, error) {
	addr, err := net.ResolveUDPAddr("udp4", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("sample.NewRTPSource: resolve %s: %w", listenAddr, err)
	}
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("sample.NewRTPSource: listen %s: %w", listenAddr, err)
	}
	if err := conn.SetReadBuffer(1024 * 1024); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sample.NewRTPSource: set read buffer: %w", err)
	}
	return &RTPSource{
		conn:           conn,
		ssrc:           ssrc,
		sampleRate:     sampleRateHz,
		captureSamples: int(float64(sampleRateHz) * captureSeconds),
		discardSamples: int(float64(sampleRateHz) * discardSeconds),
	}, nil
}

// Next blocks until one full capture window of payload bytes has arrived on
// the matching SSRC, then discards the following DiscardSeconds worth.
func (s *RTPSource) Next() (*Window, error) {
	start := time.Now()
	payload, err := s.readPayload(s.captureSamples * 8)
	if err != nil {
		return nil, err
	}
	if s.discardSamples > 0 {
		if _, err := s.readPayload(s.discardSamples * 8); err != nil {
			return nil, err
		}
	}
	samples := make([]complex128, len(payload)/8)
	for i := range samples {
		re := float32FromLE(payload[i*8 : i*8+4])
		im := float32FromLE(payload[i*8+4 : i*8+8])
		samples[i] = complex(float64(re), float64(im))
	}
	return &Window{ID: uuid.New().String(), StartTime: start, Samples: samples}, nil
}

// readPayload accumulates payload bytes from matching-SSRC RTP packets
// until need bytes have been collected.
func (s *RTPSource) readPayload(need int) ([]byte, error) {
	buf := make([]byte, 0, need)
	buf = append(buf, s.carry...)
	s.carry = nil

	packetBuf := make([]byte, 65536)
	for len(buf) < need {
		n, _, err := s.conn.ReadFromUDP(packetBuf)
		if err != nil {
			return nil, fmt.Errorf("sample.RTPSource: read: %w", err)
		}
		packet := &rtp.Packet{}
		if err := packet.Unmarshal(packetBuf[:n]); err != nil {
			continue
		}
		if packet.SSRC != s.ssrc {
			continue
		}
		buf = append(buf, packet.Payload...)
	}
	if len(buf) > need {
		s.carry = append(s.carry, buf[need:]...)
		buf = buf[:need]
	}
	return buf, nil
}

// Close releases the underlying UDP socket.
func (s *RTPSource) Close() error {
	return s.conn.Close()
}
