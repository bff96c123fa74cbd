package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_FIFO(t *testing.T) {
	q := NewEventQueue()
	q.Enqueue(EventApp{Data: "a"})
	q.Enqueue(EventApp{Data: "b"})
	q.Enqueue(EventApp{Data: "c"})
	require.Equal(t, 3, q.Len())

	var got []any
	q.Drain(func(ev Event) bool {
		got = append(got, ev.(EventApp).Data)
		return true
	})
	assert.Equal(t, []any{"a", "b", "c"}, got)
	assert.Zero(t, q.Len())
}

func TestEventQueue_EarlyStopDiscardsRest(t *testing.T) {
	q := NewEventQueue()
	q.Enqueue(EventApp{Data: 1})
	q.Enqueue(EventQuit{})
	q.Enqueue(EventApp{Data: 2})

	var seen int
	q.Drain(func(ev Event) bool {
		seen++
		_, quit := ev.(EventQuit)
		return !quit
	})

	assert.Equal(t, 2, seen)
	// Skipped events are gone, never re-queued.
	assert.Zero(t, q.Len())
}

func TestEventQueue_DrainEmpty(t *testing.T) {
	q := NewEventQueue()
	called := false
	q.Drain(func(Event) bool { called = true; return true })
	assert.False(t, called)
}
