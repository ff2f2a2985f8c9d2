package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cwsl/wsprft8/internal/sample"
)

// DecodeFunc runs a full decode pass (FFT ladder, peak picking, candidate
// construction, FEC, CRC/Costas validation) over one captured window and
// returns every raw decode it found. Supplied by cmd/ft8d or cmd/wsprd,
// which wire internal/dsp and internal/ft8 or internal/wspr together; this
// package stays mode-agnostic, matching spec.md section 4.8's controller
// description (the decode pass is mode-specific, the concurrency contract
// is not).
type DecodeFunc func(ctx context.Context, w *sample.Window) ([]Decoded, error)

// Reporter receives deduplicated spots with occurrence > 1 (spec.md section
// 4.8 step 5).
type Reporter interface {
	Report(spot *Spot) error
}

// Controller runs the single-producer/single-worker pipeline for one
// mode/frequency session: a producer goroutine blocks on Source.Next() and
// hands windows to a worker goroutine over a capacity-2 channel, dropping
// the newest window if the worker is still busy after the queue is full
// (spec.md section 4.8's "drop newest after 2" backpressure).
type Controller struct {
	Name     string
	Source   sample.Source
	Decode   DecodeFunc
	Reporter Reporter
	Dedup    *Dedup

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewController builds a Controller for one band/mode.
func NewController(name string, src sample.Source, decode DecodeFunc, reporter Reporter) *Controller {
	return &Controller{
		Name:     name,
		Source:   src,
		Decode:   decode,
		Reporter: reporter,
		Dedup:    NewDedup(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the producer and worker goroutines.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	queue := make(chan *sample.Window, 2)
	go c.produce(ctx, queue)
	go c.work(ctx, queue)
}

// Stop signals both goroutines to finish their current unit of work and
// exit; it does not block.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.stop)
}

func (c *Controller) produce(ctx context.Context, queue chan<- *sample.Window) {
	defer close(queue)
	for {
		select {
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		w, err := c.Source.Next()
		if err != nil {
			log.Printf("session[%s]: sample source error: %v; retrying in 1s", c.Name, err)
			time.Sleep(1 * time.Second)
			continue
		}

		select {
		case queue <- w:
		default:
			log.Printf("session[%s]: decode worker busy, dropping window captured at %s", c.Name, w.StartTime)
		}
	}
}

func (c *Controller) work(ctx context.Context, queue <-chan *sample.Window) {
	for w := range queue {
		c.decodeWindow(ctx, w)
		select {
		case <-c.stop:
			return
		default:
		}
	}
}

func (c *Controller) decodeWindow(ctx context.Context, w *sample.Window) {
	c.Dedup.Reset()
	decoded, err := c.Decode(ctx, w)
	if err != nil {
		log.Printf("session[%s]: decode pass error: %v", c.Name, err)
		return
	}

	now := time.Now()
	for _, d := range decoded {
		c.Dedup.Add(now, d)
	}
	c.Dedup.Evict(now)

	for _, spot := range c.Dedup.All() {
		if spot.Occurrence <= 1 {
			continue
		}
		if c.Reporter == nil {
			continue
		}
		if err := c.Reporter.Report(spot); err != nil {
			log.Printf("session[%s]: report error for %s: %v", c.Name, spot.Callsign, err)
			continue
		}
		c.Dedup.MarkSent(spot.Callsign, now)
	}
}
