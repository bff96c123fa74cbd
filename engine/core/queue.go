package core

// EventQueue buffers backend events between polling and dispatch. The frame
// loop drains it exactly once per frame; it never retains entries across
// frames. Single-threaded by the engine's concurrency contract.
type EventQueue struct {
	events []Event
}

func NewEventQueue() *EventQueue { return &EventQueue{} }

func (q *EventQueue) Enqueue(ev Event) { q.events = append(q.events, ev) }

func (q *EventQueue) Len() int { return len(q.events) }

// Drain visits buffered events in FIFO order. The visitor returns false to
// stop early; the queue is left empty either way, so events skipped by an
// early stop are discarded, never re-queued.
func (q *EventQueue) Drain(fn func(Event) bool) {
	events := q.events
	q.events = nil
	for _, ev := range events {
		if !fn(ev) {
			return
		}
	}
}
