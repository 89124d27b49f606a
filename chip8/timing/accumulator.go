package timing

import "time"

// Accumulator converts irregular elapsed wall time into whole fixed-length
// steps. Time that does not fill a step is carried to the next Add.
type Accumulator struct {
	period  time.Duration
	maxHeld time.Duration
	held    time.Duration
}

// NewAccumulator returns an accumulator producing one step per period.
// At most maxSteps+1 periods are carried between calls, so a long stall
// does not turn into a burst of catch-up steps. maxSteps <= 0 disables the cap.
func NewAccumulator(period time.Duration, maxSteps int) *Accumulator {
	a := &Accumulator{period: period}
	if maxSteps > 0 {
		a.maxHeld = period * time.Duration(maxSteps+1)
	}
	return a
}

// Period returns the length of a single step.
func (a *Accumulator) Period() time.Duration {
	return a.period
}

// Add credits elapsed time. Negative durations are ignored.
func (a *Accumulator) Add(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	a.held += elapsed
	if a.maxHeld > 0 && a.held > a.maxHeld {
		a.held = a.maxHeld
	}
}

// Take consumes one step if a whole period has been accumulated.
func (a *Accumulator) Take() bool {
	if a.period <= 0 || a.held < a.period {
		return false
	}
	a.held -= a.period
	return true
}

// Pending returns how many whole steps are banked and waiting to run.
func (a *Accumulator) Pending() int {
	if a.period <= 0 {
		return 0
	}
	return int(a.held / a.period)
}

// Reset drops all accumulated time.
func (a *Accumulator) Reset() {
	a.held = 0
}
