package timing

import "time"

// TickerLimiter paces frames off a time.Ticker. A ticker drops ticks the
// host is too slow to receive, but the wall time they covered is still
// returned so the interpreter clock is credited for it.
type TickerLimiter struct {
	ticker  *time.Ticker
	period  time.Duration
	last    time.Time
	dropped uint64
}

func NewTickerLimiter(period time.Duration) *TickerLimiter {
	return &TickerLimiter{
		ticker: time.NewTicker(period),
		period: period,
		last:   time.Now(),
	}
}

func (t *TickerLimiter) WaitForNextFrame() time.Duration {
	<-t.ticker.C
	now := time.Now()
	elapsed := now.Sub(t.last)
	t.last = now

	if missed := elapsed/t.period - 1; missed > 0 {
		t.dropped += uint64(missed)
	}
	return elapsed
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
	t.last = time.Now()
}

// Period returns the host frame length.
func (t *TickerLimiter) Period() time.Duration { return t.period }

// Dropped returns the number of ticks missed by a slow host.
func (t *TickerLimiter) Dropped() uint64 { return t.dropped }

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
