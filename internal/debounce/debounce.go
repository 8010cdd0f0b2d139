// Package debounce coalesces bursts of calls into one trailing-edge run.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs fn once the trigger stream has been quiet for delay.
// Every Trigger cancels the pending run and starts the wait over.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func() error
	timer   *time.Timer
	gen     uint64
	stopped bool
	// running counts timer runs of fn that have started and not returned.
	running sync.WaitGroup
}

// New creates a debouncer for fn. Errors from timer runs are dropped; fn is
// expected to report them itself.
func New(delay time.Duration, fn func() error) *Debouncer {
	return &Debouncer{
		delay: delay,
		fn:    fn,
	}
}

// Trigger schedules fn after the delay, superseding any pending run.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs fn unless the run it was scheduled for has been superseded,
// canceled or flushed in the meantime.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.timer == nil || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	_ = d.fn()
}

// Flush runs a pending fn synchronously on the caller's goroutine and
// returns its error. ran is false when nothing was pending.
func (d *Debouncer) Flush() (ran bool, err error) {
	if !d.take() {
		return false, nil
	}
	return true, d.fn()
}

// Cancel drops a pending run without executing it.
func (d *Debouncer) Cancel() bool {
	return d.take()
}

func (d *Debouncer) take() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending run and ignores later triggers. It returns once a
// timer run that already started has finished.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
		d.gen++
	}
	d.stopped = true
	d.mu.Unlock()

	d.running.Wait()
}
