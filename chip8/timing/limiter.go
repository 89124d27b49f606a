package timing

import "time"

// Limiter paces the host loop and reports how much wall time each frame is
// worth to the interpreter clock.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame is due and returns the
	// time to credit to it.
	WaitForNextFrame() time.Duration

	// Reset restarts the schedule so a pause is not credited as elapsed time.
	Reset()
}

// NewFixedLimiter returns a limiter that never blocks and credits exactly
// period per frame. Headless runs use it to stay reproducible.
func NewFixedLimiter(period time.Duration) Limiter {
	return fixedLimiter(period)
}

type fixedLimiter time.Duration

func (f fixedLimiter) WaitForNextFrame() time.Duration { return time.Duration(f) }
func (f fixedLimiter) Reset()                          {}

// TargetFPS is the display and timer cadence.
const TargetFPS = 60

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return PeriodFor(TargetFPS)
}

// PeriodFor returns the duration of one tick at hz ticks per second.
// Non-positive rates fall back to TargetFPS.
func PeriodFor(hz int) time.Duration {
	if hz <= 0 {
		hz = TargetFPS
	}
	return time.Second / time.Duration(hz)
}

// FramePeriod returns the host frame length needed to keep an interpreter
// running clockRate steps per second when a frame may run at most
// stepsPerFrame of them. It is never longer than FrameDuration, so the
// display refreshes at least TargetFPS times a second.
func FramePeriod(clockRate, stepsPerFrame int) time.Duration {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	return min(PeriodFor(clockRate)*time.Duration(stepsPerFrame), FrameDuration())
}
