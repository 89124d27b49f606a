package timing

import (
	"log/slog"
	"time"
)

// maxLagFrames is how far the host may fall behind its schedule before the
// schedule is moved forward instead of caught up.
const maxLagFrames = 3

// AdaptiveLimiter schedules frames on an absolute timeline. It sleeps
// through most of a wait and spins through the final millisecond.
//
// When the host falls more than maxLagFrames behind, the schedule jumps to
// now. The interpreter steps the lost time would have paid for are counted
// in Dropped; the accumulator caps what is actually replayed.
type AdaptiveLimiter struct {
	period  time.Duration
	step    time.Duration
	next    time.Time
	last    time.Time
	dropped uint64
}

// NewAdaptiveLimiter paces frames every period. step is the interpreter's
// clock period and is only used to express lag in instructions.
func NewAdaptiveLimiter(period, step time.Duration) *AdaptiveLimiter {
	if step <= 0 {
		step = period
	}
	now := time.Now()
	return &AdaptiveLimiter{period: period, step: step, next: now, last: now}
}

func (a *AdaptiveLimiter) WaitForNextFrame() time.Duration {
	now := time.Now()
	wait := a.next.Sub(now)

	switch {
	case wait > 0:
		if wait >= 2*time.Millisecond {
			time.Sleep(wait - time.Millisecond)
		}
		for time.Now().Before(a.next) {
			// spin, sleep granularity is too coarse here
		}
		now = time.Now()
	case -wait > maxLagFrames*a.period:
		lost := uint64(-wait / a.step)
		a.dropped += lost
		slog.Debug("Host behind interpreter clock", "lag", -wait, "steps", lost)
		a.next = now
	}

	a.next = a.next.Add(a.period)
	elapsed := now.Sub(a.last)
	a.last = now
	return elapsed
}

func (a *AdaptiveLimiter) Reset() {
	a.next = time.Now()
	a.last = a.next
}

// Period returns the host frame length.
func (a *AdaptiveLimiter) Period() time.Duration { return a.period }

// Dropped returns the interpreter steps skipped by schedule resyncs.
func (a *AdaptiveLimiter) Dropped() uint64 { return a.dropped }
