package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeNow returns a clock source that replays the given instants.
func fakeNow(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestFrameClock_DeltaAndCounter(t *testing.T) {
	t0 := time.Unix(100, 0)
	c := newFrameClock(0)
	c.now = fakeNow(t0, t0.Add(16*time.Millisecond), t0.Add(48*time.Millisecond))

	c.start()
	f1 := c.tick()
	f2 := c.tick()

	assert.InDelta(t, 0.016, f1.Delta, 1e-9)
	assert.InDelta(t, 0.032, f2.Delta, 1e-9)
	assert.Equal(t, uint64(1), f1.Count)
	assert.Equal(t, uint64(2), f2.Count)
}

func TestFrameClock_ClampsStall(t *testing.T) {
	t0 := time.Unix(100, 0)
	c := newFrameClock(0.25)
	c.now = fakeNow(t0, t0.Add(10*time.Second))

	c.start()
	f := c.tick()
	assert.Equal(t, 0.25, f.Delta)
}

func TestFrameClock_NeverNegative(t *testing.T) {
	t0 := time.Unix(100, 0)
	c := newFrameClock(0.25)
	// A clock jumping backwards must not produce a negative delta.
	c.now = fakeNow(t0, t0.Add(-time.Second))

	c.start()
	f := c.tick()
	assert.Equal(t, 0.0, f.Delta)
}
