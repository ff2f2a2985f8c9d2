// Package report implements the spot reporter (spec.md section 4.10): a
// wsprnet.org HTTP reporter for WSPR and a PSK Reporter IPFIX-style UDP
// reporter for FT8, plus an optional MQTT republish sink. WSPRNet is
// adapted directly from decoder_wsprnet.go's worker-pool/retry-queue
// design; PSKReporter is ported from original_source's FT8Utilities.cc
// sender (see pskreporter.go), since the teacher's pack never implements the
// PSK Reporter wire protocol itself (only an analytics wrapper around
// someone else's reports).
package report

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cwsl/wsprft8/internal/session"
)

const (
	wsprNetHost         = "wsprnet.org"
	wsprNetMaxQueueSize = 10000
	wsprNetMaxRetries   = 3
	wsprNetWorkers      = 5
	wsprModeWSPR        = 2
)

// pendingReport is a queued submission, carrying its own retry bookkeeping.
type pendingReport struct {
	spot          *session.Spot
	receiverFreq  uint64
	retryCount    int
	nextRetryTime time.Time
}

// WSPRNet submits deduplicated WSPR spots to wsprnet.org, matching
// decoder_wsprnet.go's WSPRNet type: a bounded queue, a fixed worker pool,
// and exponential-ish retry delays (5s, 15s, 60s) up to 3 attempts.
type WSPRNet struct {
	receiverCallsign string
	receiverLocator  string
	receiverFreqHz   uint64
	programName      string
	programVersion   string

	httpClient *http.Client

	queueMu    sync.Mutex
	queue      []pendingReport
	retryMu    sync.Mutex
	retryQueue []pendingReport

	statsMu     sync.Mutex
	sendsOK     int
	sendsFailed int
	retries     int

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWSPRNet builds a WSPRNet reporter bound to one receiver callsign, grid
// locator, and dial frequency (one reporter per WSPR session/band, matching
// the one-URL-per-spot submission model).
func NewWSPRNet(callsign, locator string, receiverFreqHz uint64, programName, programVersion string) (*WSPRNet, error) {
	if callsign == "" || locator == "" {
		return nil, fmt.Errorf("report.WSPRNet: callsign and locator are required")
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &WSPRNet{
		receiverCallsign: callsign,
		receiverLocator:  locator,
		receiverFreqHz:   receiverFreqHz,
		programName:      programName,
		programVersion:   programVersion,
		httpClient: &http.Client{
			Timeout:   3 * time.Second,
			Transport: transport,
		},
		queue:      make([]pendingReport, 0, wsprNetMaxQueueSize),
		retryQueue: make([]pendingReport, 0, wsprNetMaxQueueSize),
		stopCh:     make(chan struct{}),
	}, nil
}

// Start launches the worker pool.
func (w *WSPRNet) Start() {
	w.running = true
	for i := 0; i < wsprNetWorkers; i++ {
		w.wg.Add(1)
		go w.workerLoop()
	}
	log.Printf("report.WSPRNet: started %d workers", wsprNetWorkers)
}

// Report implements session.Reporter: queues a spot for submission.
func (w *WSPRNet) Report(spot *session.Spot) error {
	if !w.running {
		return fmt.Errorf("report.WSPRNet: not running")
	}
	if spot.Callsign == "" || spot.Callsign == "<...>" || spot.Grid == "" {
		return nil
	}

	w.queueMu.Lock()
	defer w.queueMu.Unlock()
	if len(w.queue) >= wsprNetMaxQueueSize {
		return fmt.Errorf("report.WSPRNet: queue full")
	}
	w.queue = append(w.queue, pendingReport{spot: spot, receiverFreq: w.receiverFreqHz})
	return nil
}

func (w *WSPRNet) workerLoop() {
	defer w.wg.Done()
	for w.running {
		rep, ok := w.nextReport()
		if !ok {
			select {
			case <-time.After(100 * time.Millisecond):
			case <-w.stopCh:
				return
			}
			continue
		}
		w.send(rep)
	}
}

func (w *WSPRNet) nextReport() (pendingReport, bool) {
	w.queueMu.Lock()
	if len(w.queue) > 0 {
		rep := w.queue[0]
		w.queue = w.queue[1:]
		w.queueMu.Unlock()
		return rep, true
	}
	w.queueMu.Unlock()

	now := time.Now()
	w.retryMu.Lock()
	defer w.retryMu.Unlock()
	if len(w.retryQueue) > 0 && w.retryQueue[0].nextRetryTime.Before(now) {
		rep := w.retryQueue[0]
		w.retryQueue = w.retryQueue[1:]
		return rep, true
	}
	return pendingReport{}, false
}

func (w *WSPRNet) send(rep pendingReport) {
	ok := w.post(rep)
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	if ok {
		w.sendsOK++
		return
	}
	if rep.retryCount < wsprNetMaxRetries {
		delays := []int{5, 15, 60}
		idx := rep.retryCount
		if idx >= len(delays) {
			idx = len(delays) - 1
		}
		rep.retryCount++
		rep.nextRetryTime = time.Now().Add(time.Duration(delays[idx]) * time.Second)
		w.retryMu.Lock()
		if len(w.retryQueue) < wsprNetMaxQueueSize {
			w.retryQueue = append(w.retryQueue, rep)
			w.retries++
		}
		w.retryMu.Unlock()
		log.Printf("report.WSPRNet: retrying %s in %ds (attempt %d/%d)", rep.spot.Callsign, delays[idx], rep.retryCount, wsprNetMaxRetries)
	} else {
		w.sendsFailed++
		log.Printf("report.WSPRNet: giving up on %s after %d retries", rep.spot.Callsign, wsprNetMaxRetries)
	}
}

func (w *WSPRNet) post(rep pendingReport) bool {
	data := w.buildPostData(rep)
	req, err := http.NewRequest("POST", fmt.Sprintf("http://%s/post?", wsprNetHost), strings.NewReader(data))
	if err != nil {
		log.Printf("report.WSPRNet: request build failed: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Connection", "Keep-Alive")
	req.Header.Set("Host", wsprNetHost)
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Printf("report.WSPRNet: request failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode == 200 {
		return true
	}
	log.Printf("report.WSPRNet: unexpected response %d %s", resp.StatusCode, resp.Status)
	return false
}

func (w *WSPRNet) buildPostData(rep pendingReport) string {
	spot := rep.spot
	tm := spot.TimeStart.UTC()

	params := url.Values{}
	params.Set("function", "wspr")
	params.Set("rcall", w.receiverCallsign)
	params.Set("rgrid", w.receiverLocator)
	params.Set("rqrg", fmt.Sprintf("%.6f", float64(rep.receiverFreq)/1e6))
	params.Set("date", tm.Format("060102"))
	params.Set("time", tm.Format("1504"))
	params.Set("sig", fmt.Sprintf("%d", int(spot.SNRDB)))
	params.Set("dt", "0.0")
	params.Set("drift", fmt.Sprintf("%d", int(spot.AccumulatedShift)))
	params.Set("tcall", spot.Callsign)
	params.Set("tgrid", spot.Grid)
	params.Set("tqrg", fmt.Sprintf("%.6f", spot.FreqHz/1e6))
	params.Set("dbm", fmt.Sprintf("%d", spot.DBm))
	if w.programVersion != "" {
		params.Set("version", fmt.Sprintf("%s %s", w.programName, w.programVersion))
	} else {
		params.Set("version", w.programName)
	}
	params.Set("mode", fmt.Sprintf("%d", wsprModeWSPR))
	return params.Encode()
}

// Stop drains and stops the worker pool, logging final statistics.
func (w *WSPRNet) Stop() {
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	w.wg.Wait()
	w.httpClient.CloseIdleConnections()

	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	log.Printf("report.WSPRNet: sent=%d failed=%d retries=%d", w.sendsOK, w.sendsFailed, w.retries)
}
