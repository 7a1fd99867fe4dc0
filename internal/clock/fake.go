package clock

import "time"

// FakeClock is a manually advanced Clock for tests that pin quote
// numbering and expiry to a known instant. Not safe for concurrent
// use.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock at t, normalized to UTC to match
// SystemClock.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward. A negative duration moves it back,
// which lets a test approach a year boundary from either side.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
