package store

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay before a filter change is fetched
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs only the last function handed to it within the delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()

	// held while a call runs so Flush can wait for it
	running sync.Mutex
}

// NewDebouncer creates a debouncer. A non-positive delay uses
// DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Call schedules fn, replacing anything still waiting
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.fn = fn
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	d.timer = nil
	if fn == nil {
		d.mu.Unlock()
		return
	}
	d.running.Lock()
	d.mu.Unlock()

	defer d.running.Unlock()
	fn()
}

// Flush runs the pending call now, if any, and waits for a call already
// running to finish.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.fn
	d.fn = nil
	d.mu.Unlock()

	d.running.Lock()
	defer d.running.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop drops the pending call, if any
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
}

// Delay returns the configured delay
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
