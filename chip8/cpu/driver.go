package cpu

import "time"

// Advance credits elapsed wall time and runs one step per whole clock period
// covered, up to StepsPerUpdate steps. Leftover time carries to the next
// call. It stops at the first fault and returns the number of steps run.
func (c *Interpreter) Advance(elapsed time.Duration) (int, error) {
	if !c.initialized {
		return 0, ErrNotInitialized
	}

	c.clock.Add(elapsed)

	ran := 0
	for ran < c.steps && c.clock.Take() {
		if err := c.Step(); err != nil {
			return ran, err
		}
		ran++
	}
	return ran, nil
}

// Cycle is Advance driven by the interpreter's own clock: the time since
// the previous Cycle (or Init) is credited, and the reference point moves
// to now on every call.
func (c *Interpreter) Cycle() (int, error) {
	if !c.initialized {
		return 0, ErrNotInitialized
	}

	now := c.now()
	elapsed := now.Sub(c.lastTick)
	c.lastTick = now
	return c.Advance(elapsed)
}

// ClockPeriod is the wall time that pays for a single step.
func (c *Interpreter) ClockPeriod() time.Duration {
	return c.clock.Period()
}

// Backlog returns the whole steps already paid for but not yet run.
func (c *Interpreter) Backlog() int {
	return c.clock.Pending()
}

// StepsPerUpdate is the cap on steps per Advance or Cycle call.
func (c *Interpreter) StepsPerUpdate() int {
	return c.steps
}
