package drawing

import (
	"sort"
	"time"
)

// Scheduler runs deferred callbacks from the frame loop. Time only moves when
// Tick is called, so callbacks run on the caller's goroutine.
type Scheduler struct {
	now    time.Duration
	timers []*Timer
}

// Timer is a handle to a scheduled callback.
type Timer struct {
	due       time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

// NewScheduler creates a scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the time accumulated through Tick.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once at least d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	t := &Timer{due: s.now + max(d, 0), fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Tick advances time by dt and runs every due callback in due order.
// Callbacks scheduled while ticking run on a later tick.
func (s *Scheduler) Tick(dt time.Duration) {
	s.now += dt

	var due, pending []*Timer
	for _, t := range s.timers {
		switch {
		case t.cancelled:
		case t.due <= s.now:
			due = append(due, t)
		default:
			pending = append(pending, t)
		}
	}
	s.timers = pending

	sort.SliceStable(due, func(i, j int) bool { return due[i].due < due[j].due })
	for _, t := range due {
		if t.cancelled {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Cancel stops the timer. It reports whether the callback was still pending.
// Cancel on a nil timer is a no-op.
func (t *Timer) Cancel() bool {
	if t == nil || t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}

// Pending reports whether the callback has neither fired nor been cancelled.
func (t *Timer) Pending() bool {
	return t != nil && !t.cancelled && !t.fired
}
