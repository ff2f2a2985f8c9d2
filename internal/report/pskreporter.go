package report

import (
	"fmt"
	"log"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/cwsl/wsprft8/internal/session"
)

// PSK Reporter packet templates, copied byte-for-byte from the reference
// decoder's FT8Utilities.cc (PSKHeader/RECEIVERFMT/SENDERFMT/*DATAHEADER
// constants): a 16-byte IPFIX-style header, fixed template records
// describing the receiver and sender data sets, and their data-set headers.
var (
	pskHeader = []byte{
		0x00, 0x0A, 0x00, 0xAC, 0x47, 0x95, 0x32, 0x72,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
	}
	receiverFmt = []byte{
		0x00, 0x03, 0x00, 0x24, 0x99, 0x92, 0x00, 0x03, 0x00, 0x00, 0x80, 0x02, 0xFF, 0xFF,
		0x00, 0x00, 0x76, 0x8F, 0x80, 0x04, 0xFF, 0xFF, 0x00, 0x00, 0x76, 0x8F, 0x80, 0x08,
		0xFF, 0xFF, 0x00, 0x00, 0x76, 0x8F, 0x00, 0x00,
	}
	senderFmt = []byte{
		0x00, 0x02, 0x00, 0x2C, 0x99, 0x93, 0x00, 0x05, 0x80, 0x01, 0xFF, 0xFF, 0x00, 0x00,
		0x76, 0x8F, 0x80, 0x05, 0x00, 0x04, 0x00, 0x00, 0x76, 0x8F, 0x80, 0x0A, 0xFF, 0xFF,
		0x00, 0x00, 0x76, 0x8F, 0x80, 0x0B, 0x00, 0x01, 0x00, 0x00, 0x76, 0x8F, 0x00, 0x96,
		0x00, 0x04,
	}
	receiverDataHeader = []byte{0x99, 0x92, 0x00, 0x00}
	senderDataHeader   = []byte{0x99, 0x93, 0x00, 0x00}
)

const (
	pskReportVersion = "0.1wsprft8"
	pskModeFT8       = "FT8"
	pskFlushInterval = 300 * time.Second
	pskDefaultAddr   = "report.pskreporter.info:4739"
)

// PSKReporter batches accepted FT8 spots and flushes them to PSK Reporter
// every 300s as one IPFIX-style UDP packet, per spec.md section 4.10. Ported
// from FT8Utilities.cc::reportSpot, replacing its fixed-size C buffers with
// Go's growable byte slices and its single-threaded queue<> with a
// mutex-protected slice (spec.md section 9's "single synchronised accessor"
// shared-resource note).
type PSKReporter struct {
	reporterCallsign string
	reporterLocator  string
	correlationID    uint32

	conn *net.UDPConn

	mu            sync.Mutex
	pending       []*session.Spot
	sequenceNum   uint32
	lastFlushTime time.Time

	stop chan struct{}
	done chan struct{}
}

// NewPSKReporter dials the PSK Reporter UDP endpoint (or addr, if non-empty,
// for tests) and returns a reporter ready to accept spots.
func NewPSKReporter(reporterCallsign, reporterLocator, addr string) (*PSKReporter, error) {
	if reporterCallsign == "" || reporterLocator == "" {
		return nil, fmt.Errorf("report.PSKReporter: callsign and locator are required")
	}
	if addr == "" {
		addr = pskDefaultAddr
	}
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("report.PSKReporter: resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("report.PSKReporter: dial %s: %w", addr, err)
	}
	return &PSKReporter{
		reporterCallsign: reporterCallsign,
		reporterLocator:  reporterLocator,
		correlationID:    rand.Uint32(),
		conn:             conn,
		lastFlushTime:    time.Now(),
		stop:             make(chan struct{}),
		done:             make(chan struct{}),
	}, nil
}

// Start launches the 300s flush timer.
func (p *PSKReporter) Start() {
	go p.flushLoop()
}

// Report implements session.Reporter: queues the spot for the next flush.
func (p *PSKReporter) Report(spot *session.Spot) error {
	if spot.Callsign == "" || spot.Callsign == "<...>" {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, spot)
	return nil
}

func (p *PSKReporter) flushLoop() {
	defer close(p.done)
	ticker := time.NewTicker(pskFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.flush()
		}
	}
}

func (p *PSKReporter) flush() {
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}
	spots := p.pending
	p.pending = nil
	p.sequenceNum++
	seq := p.sequenceNum
	p.mu.Unlock()

	packet := p.buildPacket(spots, seq)
	if _, err := p.conn.Write(packet); err != nil {
		log.Printf("report.PSKReporter: send failed: %v", err)
		return
	}
	log.Printf("report.PSKReporter: flushed %d spot(s), %d bytes", len(spots), len(packet))
}

func be32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func pad4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// buildPacket assembles one IPFIX-style packet: header, the two template
// records, one receiver data record, and one sender data record per spot.
func (p *PSKReporter) buildPacket(spots []*session.Spot, seq uint32) []byte {
	now := uint32(time.Now().Unix())

	packet := make([]byte, 0, 256+64*len(spots))
	packet = append(packet, pskHeader...)
	copy(packet[4:8], be32(now))
	copy(packet[8:12], be32(seq))
	copy(packet[12:16], be32(p.correlationID))

	packet = append(packet, receiverFmt...)
	packet = append(packet, senderFmt...)

	receiverInfo := append([]byte{}, receiverDataHeader...)
	receiverInfo = append(receiverInfo, byte(len(p.reporterCallsign)))
	receiverInfo = append(receiverInfo, p.reporterCallsign...)
	receiverInfo = append(receiverInfo, byte(len(p.reporterLocator)))
	receiverInfo = append(receiverInfo, p.reporterLocator...)
	receiverInfo = append(receiverInfo, byte(len(pskReportVersion)))
	receiverInfo = append(receiverInfo, pskReportVersion...)
	receiverInfo = pad4(receiverInfo)
	receiverInfo[2] = byte(len(receiverInfo) >> 8)
	receiverInfo[3] = byte(len(receiverInfo))
	packet = append(packet, receiverInfo...)

	senderInfo := append([]byte{}, senderDataHeader...)
	for _, spot := range spots {
		senderInfo = append(senderInfo, byte(len(spot.Callsign)))
		senderInfo = append(senderInfo, spot.Callsign...)
		senderInfo = append(senderInfo, be32(uint32(spot.FreqHz))...)
		senderInfo = append(senderInfo, byte(len(pskModeFT8)))
		senderInfo = append(senderInfo, pskModeFT8...)
		senderInfo = append(senderInfo, 1)
		senderInfo = append(senderInfo, be32(uint32(spot.TimeStart.Unix()))...)
	}
	senderInfo = pad4(senderInfo)
	senderInfo[2] = byte(len(senderInfo) >> 8)
	senderInfo[3] = byte(len(senderInfo))
	packet = append(packet, senderInfo...)

	packet[2] = byte(len(packet) >> 8)
	packet[3] = byte(len(packet))
	return packet
}

// Stop halts the flush loop, flushing any remaining pending spots first.
func (p *PSKReporter) Stop() {
	close(p.stop)
	<-p.done
	p.flush()
	p.conn.Close()
}
