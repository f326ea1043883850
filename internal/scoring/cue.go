package scoring

import "time"

// DefaultCueInterval is the minimum wall-clock gap between feedback cues.
const DefaultCueInterval = 120 * time.Millisecond

// CueThrottler gates haptic/audio feedback so that a burst of trace matches
// does not fire a cue for every point. It is a presentation helper for
// callers of TraceScorer, not part of the scoring itself.
type CueThrottler struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewCueThrottler creates a throttler with the given minimum interval. A
// non-positive interval uses DefaultCueInterval.
func NewCueThrottler(interval time.Duration) *CueThrottler {
	if interval <= 0 {
		interval = DefaultCueInterval
	}
	return &CueThrottler{interval: interval, now: time.Now}
}

// Allow reports whether a cue may fire now, and if so records the firing.
func (c *CueThrottler) Allow() bool {
	now := c.now()
	if !c.last.IsZero() && now.Sub(c.last) < c.interval {
		return false
	}
	c.last = now
	return true
}
