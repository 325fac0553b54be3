package storage

import (
	"sync"
	"time"
)

// reloadDebouncer collapses a burst of change notifications into a single
// trailing-edge fire. Unlike a per-path debouncer it tracks exactly one
// target, so there is nothing to key on: any feed arms or extends the same
// timer. Safe for concurrent use.
type reloadDebouncer struct {
	window time.Duration
	fire   func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newReloadDebouncer(window time.Duration, fire func()) *reloadDebouncer {
	return &reloadDebouncer{window: window, fire: fire}
}

// Feed registers one change notification. The fire callback runs after the
// window passes with no further feeds.
func (d *reloadDebouncer) Feed() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Reset(d.window)
		return
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		d.timer = nil
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			d.fire()
		}
	})
}

// Stop cancels any armed timer. A pending fire is dropped, not flushed;
// subsequent feeds are no-ops.
func (d *reloadDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
