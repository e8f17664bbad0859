package worker

import "github.com/zawwz/rmidimap/internal/mievent"

// circularQueue is a fixed-capacity FIFO of decoded events that drops its
// oldest entry when full instead of blocking the producer, mirroring the
// source's queues::CircularBuffer (spec §3 "bounded per-device queue", §9
// "producer never blocks on a full queue"). One entry per decoded event,
// not per matched rule (spec §3 invariant I4): routing-table lookup and
// per-rule dispatch happen once per dequeue, in the executor.
type circularQueue struct {
	buf  []mievent.Event
	head int
	size int
}

func newCircularQueue(capacity int) *circularQueue {
	if capacity <= 0 {
		capacity = 1
	}

	return &circularQueue{buf: make([]mievent.Event, capacity)}
}

// push appends ev, overwriting the oldest entry if the queue is full.
// Reports whether an entry was dropped.
func (q *circularQueue) push(ev mievent.Event) (dropped bool) {
	tail := (q.head + q.size) % len(q.buf)
	q.buf[tail] = ev

	if q.size == len(q.buf) {
		q.head = (q.head + 1) % len(q.buf)

		return true
	}

	q.size++

	return false
}

// pop removes and returns the oldest entry, or ok=false if empty.
func (q *circularQueue) pop() (ev mievent.Event, ok bool) {
	if q.size == 0 {
		return mievent.Event{}, false
	}

	ev = q.buf[q.head]
	q.buf[q.head] = mievent.Event{}
	q.head = (q.head + 1) % len(q.buf)
	q.size--

	return ev, true
}

func (q *circularQueue) len() int { return q.size }
