package core

import "time"

// frameClock produces the per-frame delta and counter. Deltas are wall-clock
// elapsed time clamped to maxDelta, so a stall (debugger, window drag) never
// feeds a pathological step into layer updates.
type frameClock struct {
	now      func() time.Time
	last     time.Time
	maxDelta float64 // seconds; 0 disables the clamp
	count    uint64
}

func newFrameClock(maxDelta float64) *frameClock {
	return &frameClock{now: time.Now, maxDelta: maxDelta}
}

func (c *frameClock) start() { c.last = c.now() }

func (c *frameClock) tick() Frame {
	t := c.now()
	dt := t.Sub(c.last).Seconds()
	c.last = t
	if dt < 0 {
		dt = 0
	}
	if c.maxDelta > 0 && dt > c.maxDelta {
		dt = c.maxDelta
	}
	c.count++
	return Frame{Delta: dt, Count: c.count}
}
