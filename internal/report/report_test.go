package report

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/cwsl/wsprft8/internal/session"
)

func TestWSPRNetBuildPostDataFields(t *testing.T) {
	w, err := NewWSPRNet("KG5YJE", "EM13", 14097100, "wsprft8", "0.1")
	if err != nil {
		t.Fatalf("NewWSPRNet: %v", err)
	}
	spot := &session.Spot{
		Callsign:         "W1AW",
		Grid:             "FN31",
		FreqHz:           14097123,
		TimeStart:        time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC),
		SNRDB:            -10,
		DBm:              37,
		AccumulatedShift: 2,
	}
	data := w.buildPostData(pendingReport{spot: spot, receiverFreq: 14097100})
	for _, want := range []string{"function=wspr", "rcall=KG5YJE", "tcall=W1AW", "tgrid=FN31", "dbm=37"} {
		if !strings.Contains(data, want) {
			t.Errorf("post data missing %q: %s", want, data)
		}
	}
}

func TestPSKReporterBuildPacketHeaderAndLength(t *testing.T) {
	// Use a loopback UDP listener as the destination so the test doesn't hit
	// the network.
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("ListenUDP: %v", err)
	}
	defer listener.Close()

	p, err := NewPSKReporter("KG5YJE", "EM13", listener.LocalAddr().String())
	if err != nil {
		t.Fatalf("NewPSKReporter: %v", err)
	}
	defer p.conn.Close()

	spot := &session.Spot{Callsign: "W1AW", FreqHz: 14074123, TimeStart: time.Now()}
	packet := p.buildPacket([]*session.Spot{spot}, 1)

	if len(packet) < 16 {
		t.Fatalf("packet too short: %d bytes", len(packet))
	}
	declaredLen := int(packet[2])<<8 | int(packet[3])
	if declaredLen != len(packet) {
		t.Errorf("declared length %d != actual %d", declaredLen, len(packet))
	}
	if packet[0] != 0x00 || packet[1] != 0x0A {
		t.Errorf("unexpected IPFIX version bytes: %x %x", packet[0], packet[1])
	}
}

func TestPSKReporterIgnoresHashedCallsign(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("ListenUDP: %v", err)
	}
	defer listener.Close()

	p, err := NewPSKReporter("KG5YJE", "EM13", listener.LocalAddr().String())
	if err != nil {
		t.Fatalf("NewPSKReporter: %v", err)
	}
	defer p.conn.Close()

	p.Report(&session.Spot{Callsign: "<...>"})
	if len(p.pending) != 0 {
		t.Errorf("expected hashed callsign to be ignored, got %d pending", len(p.pending))
	}
}
