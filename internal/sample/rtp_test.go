package sample

import (
	"net"
	"testing"
	"time"

	"github.com/pion/rtp"
)

func TestRTPSourceAssemblesWindowFromMatchingSSRC(t *testing.T) {
	src, err := NewRTPSource("127.0.0.1:0", 0xCAFE, 1, 2, 0)
	if err != nil {
		t.Fatalf("NewRTPSource: %v", err)
	}
	defer src.Close()

	sender, err := net.DialUDP("udp4", nil, src.conn.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	defer sender.Close()

	pairs := [][2]float32{{1, -1}, {2, -2}}
	payload := encodeFloat32Pairs(pairs)

	go func() {
		// Give Next a moment to start reading before packets land.
		time.Sleep(10 * time.Millisecond)
		sendRTP(t, sender, 0x1111, payload[:8]) // wrong SSRC, must be ignored
		sendRTP(t, sender, 0xCAFE, payload)
	}()

	w, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(w.Samples) != 2 {
		t.Fatalf("len(Samples) = %d, want 2", len(w.Samples))
	}
	if real(w.Samples[0]) != 1 || imag(w.Samples[0]) != -1 {
		t.Errorf("Samples[0] = %v, want (1,-1)", w.Samples[0])
	}
	if w.ID == "" {
		t.Error("expected a generated window ID")
	}
}

func sendRTP(t *testing.T, conn *net.UDPConn, ssrc uint32, payload []byte) {
	t.Helper()
	packet := &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    97,
			SequenceNumber: 1,
			Timestamp:      0,
			SSRC:           ssrc,
		},
		Payload: payload,
	}
	raw, err := packet.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := conn.Write(raw); err != nil {
		t.Fatalf("Write: %v", err)
	}
}
