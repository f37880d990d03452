package utils

import (
	"sync"
	"time"
)

// AfterFunc schedules fn after d and returns a func that cancels it.
// The returned stop reports whether the call was prevented.
type AfterFunc func(d time.Duration, fn func()) (stop func() bool)

// TimerAfterFunc schedules with time.AfterFunc. fn runs on the timer goroutine.
func TimerAfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// ImmediateAfterFunc runs fn at once on the caller's goroutine, ignoring d.
// Nothing is left to cancel.
func ImmediateAfterFunc(_ time.Duration, fn func()) func() bool {
	fn()
	return func() bool { return false }
}

// Debouncer keeps at most one pending call, cancelling the previous one
// whenever a new one is scheduled.
type Debouncer struct {
	mutex      sync.Mutex
	after      AfterFunc
	stop       func() bool
	generation uint64
	firedGen   uint64
	lastCalled time.Time
}

// NewDebouncer creates a debouncer using after for scheduling. A nil after
// uses TimerAfterFunc.
func NewDebouncer(after AfterFunc) *Debouncer {
	if after == nil {
		after = TimerAfterFunc
	}
	return &Debouncer{after: after}
}

// Debounce calls fn after duration, cancelling any previous pending call.
func (d *Debouncer) Debounce(duration time.Duration, fn func()) {
	d.mutex.Lock()
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
	if d.after == nil {
		d.after = TimerAfterFunc
	}
	d.generation++
	gen := d.generation
	after := d.after
	d.mutex.Unlock()

	stop := after(duration, func() {
		d.mutex.Lock()
		// A superseded callback may still fire if its stop lost the race.
		if gen != d.generation {
			d.mutex.Unlock()
			return
		}
		d.lastCalled = time.Now()
		d.firedGen = gen
		d.stop = nil
		d.mutex.Unlock()
		fn()
	})

	d.mutex.Lock()
	// Synchronous schedulers run fn before after returns.
	if gen == d.generation && d.firedGen != gen {
		d.stop = stop
	}
	d.mutex.Unlock()
}

// Cancel drops the pending call, if any. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.generation++
	if d.stop == nil {
		return false
	}
	stopped := d.stop()
	d.stop = nil
	return stopped
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.stop != nil
}
