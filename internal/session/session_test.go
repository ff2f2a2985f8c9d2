package session

import (
	"context"
	"testing"
	"time"

	"github.com/cwsl/wsprft8/internal/sample"
)

func TestDedupMergesSameCallsignAndFreq(t *testing.T) {
	d := NewDedup()
	now := time.Now()
	spot, isNew := d.Add(now, Decoded{Callsign: "KG5YJE", FreqHz: 14097001, SNRDB: -10, Shift: 0.5})
	if !isNew {
		t.Fatal("expected first Add to be new")
	}
	if spot.Occurrence != 1 {
		t.Errorf("Occurrence = %d, want 1", spot.Occurrence)
	}

	spot2, isNew2 := d.Add(now, Decoded{Callsign: "KG5YJE", FreqHz: 14097002, SNRDB: -5, Shift: 0.5})
	if isNew2 {
		t.Fatal("expected second Add (freq within 3Hz) to merge")
	}
	if spot2.Occurrence != 2 {
		t.Errorf("Occurrence = %d, want 2", spot2.Occurrence)
	}
	if spot2.SNRDB != -5 {
		t.Errorf("SNRDB = %v, want -5 (max of -10,-5)", spot2.SNRDB)
	}
	if spot2.AccumulatedShift != 1.0 {
		t.Errorf("AccumulatedShift = %v, want 1.0", spot2.AccumulatedShift)
	}
}

func TestDedupDistinctFrequencyDoesNotMerge(t *testing.T) {
	d := NewDedup()
	now := time.Now()
	d.Add(now, Decoded{Callsign: "KG5YJE", FreqHz: 14097000})
	_, isNew := d.Add(now, Decoded{Callsign: "KG5YJE", FreqHz: 14097100})
	if !isNew {
		t.Fatal("expected a 100Hz-away frequency to be a distinct entry")
	}
}

func TestDedupResetClearsEntries(t *testing.T) {
	d := NewDedup()
	d.Add(time.Now(), Decoded{Callsign: "W1AW", FreqHz: 7040000})
	d.Reset()
	if len(d.All()) != 0 {
		t.Errorf("expected Reset to clear entries, got %d", len(d.All()))
	}
}

func TestDedupRecentlySent(t *testing.T) {
	d := NewDedup()
	now := time.Now()
	if d.RecentlySent("W1AW", now) {
		t.Fatal("expected not-yet-sent callsign to report false")
	}
	d.MarkSent("W1AW", now)
	if !d.RecentlySent("W1AW", now.Add(10*time.Second)) {
		t.Fatal("expected recently-sent callsign to report true within 3600s")
	}
	if d.RecentlySent("W1AW", now.Add(3601*time.Second)) {
		t.Fatal("expected callsign to expire after 3600s")
	}
}

// fakeSource hands out the windows sent on its channel, blocking until one
// arrives, and returns context.Canceled once the channel is closed; used only
// to exercise Controller's goroutine lifecycle without a real sample stream.
type fakeSource struct {
	windows chan *sample.Window
}

func (f *fakeSource) Next() (*sample.Window, error) {
	w, ok := <-f.windows
	if !ok {
		return nil, context.Canceled
	}
	return w, nil
}

func TestControllerStartStop(t *testing.T) {
	src := &fakeSource{windows: make(chan *sample.Window, 1)}
	decodeCalls := make(chan struct{}, 4)
	decode := func(ctx context.Context, w *sample.Window) ([]Decoded, error) {
		decodeCalls <- struct{}{}
		return nil, nil
	}
	c := NewController("test-band", src, decode, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.Start(ctx)
	src.windows <- &sample.Window{StartTime: time.Now()}

	select {
	case <-decodeCalls:
	case <-time.After(2 * time.Second):
		t.Fatal("decode was not called within timeout")
	}

	c.Stop()
	close(src.windows)
}
