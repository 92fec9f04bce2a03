// Package rotation drives the slideshow index.
package rotation

import (
	"sync"
	"time"
)

// DefaultPeriod is the slideshow advance interval
const DefaultPeriod = 4 * time.Second

// Rotator is the pure slideshow position over a collection of Length items
type Rotator struct {
	Index  int
	Length int
}

// Advance moves to the next slot, wrapping at Length
func (r Rotator) Advance() Rotator {
	n := r.Length
	if n < 1 {
		n = 1
	}
	r.Index = (r.Index + 1) % n
	return r
}

// Resize adopts a new collection length, keeping Index in range
func (r Rotator) Resize(n int) Rotator {
	if n < 0 {
		n = 0
	}
	r.Length = n
	if r.Index >= n || r.Index < 0 {
		r.Index = 0
	}
	return r
}

// Current returns the index to show, or -1 when there is nothing to show
func (r Rotator) Current() int {
	if r.Length < 1 {
		return -1
	}
	return r.Index
}

// Timer fires a callback on a fixed period. Arm replaces any running
// ticker, Stop releases it; both are safe to call repeatedly.
type Timer struct {
	period time.Duration
	fire   func()

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewTimer creates an unarmed timer
func NewTimer(period time.Duration, fire func()) *Timer {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Timer{period: period, fire: fire}
}

// Period returns the firing interval
func (t *Timer) Period() time.Duration {
	return t.period
}

// Arm cancels the running ticker, if any, and starts a fresh one
func (t *Timer) Arm() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop, t.done = stop, done

	go t.run(stop, done)
}

// Stop cancels the ticker and waits for its goroutine to exit
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Armed reports whether a ticker is running
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Timer) stopLocked() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop, t.done = nil, nil
}

func (t *Timer) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			if t.fire != nil {
				t.fire()
			}
		}
	}
}
