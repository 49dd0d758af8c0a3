// Package clock provides a virtual-time scheduler for fixed-rate simulation.
//
// Nothing here reads the wall clock. The host advances time explicitly and
// every callback that falls due runs synchronously, to completion, before the
// next one starts. Tests drive it without sleeping; the terminal platform
// drives it from its tick messages.
package clock

import (
	"time"

	"github.com/vovakirdan/glider-run/internal/core"
)

// MaxTickRate is the fastest tick rate Interval honors.
const MaxTickRate = 1000

// Interval returns the duration of one tick at the given rate. A rate of
// zero or less means 60; faster rates are capped at MaxTickRate.
func Interval(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 60
	}
	return time.Second / time.Duration(core.Clamp(tickRate, 1, MaxTickRate))
}

// Scheduler owns a set of periodic timers and a virtual "now".
type Scheduler struct {
	now    time.Duration
	timers []*Timer
	seq    uint64
}

// New creates a scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of active timers.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Every registers fn to run once per period, first at Now()+period.
func (s *Scheduler) Every(period time.Duration, fn func()) *Timer {
	if period <= 0 {
		panic("clock: timer period must be positive")
	}
	s.seq++
	t := &Timer{
		s:      s,
		seq:    s.seq,
		period: period,
		last:   s.now,
		next:   s.now + period,
		fn:     fn,
	}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves time forward by dt, firing every timer whose deadline falls
// within (now, now+dt]. Timers fire in deadline order; equal deadlines fire
// in registration order. Callbacks may stop or retune any timer, including
// their own, and the change is honored for the rest of this call.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		return
	}
	target := s.now + dt
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.next
		t.last = t.next
		t.next += t.period
		t.fn()
	}
	s.now = target
}

func (s *Scheduler) nextDue(target time.Duration) *Timer {
	var best *Timer
	for _, t := range s.timers {
		if t.next > target {
			continue
		}
		if best == nil || t.next < best.next || (t.next == best.next && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) remove(t *Timer) {
	for i, other := range s.timers {
		if other == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Timer is a periodic callback registered with a Scheduler.
type Timer struct {
	s       *Scheduler
	seq     uint64
	period  time.Duration
	last    time.Duration // when it last fired, or when it was created
	next    time.Duration
	fn      func()
	stopped bool
}

// Stop cancels the timer. A stopped timer never fires again, even if it was
// already due within the Advance call that stopped it.
func (t *Timer) Stop() {
	if t.stopped {
		return
	}
	t.stopped = true
	t.s.remove(t)
}

// Period returns the current period.
func (t *Timer) Period() time.Duration {
	return t.period
}

// Reset changes the period while keeping the cycle continuous: the next
// firing is one new period after the last firing, or right now if that
// moment has already passed. The pending cycle is neither dropped nor
// doubled. Resetting to the current period, or resetting a stopped timer,
// does nothing and returns false.
func (t *Timer) Reset(period time.Duration) bool {
	if t.stopped || period <= 0 || period == t.period {
		return false
	}
	t.period = period
	next := t.last + period
	if next < t.s.now {
		next = t.s.now
	}
	t.next = next
	return true
}
