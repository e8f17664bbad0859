package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zawwz/rmidimap/internal/mievent"
)

func TestCircularQueue_FIFO(t *testing.T) {
	q := newCircularQueue(3)

	for i := 0; i < 3; i++ {
		dropped := q.push(mievent.Event{ID: uint8(i)})
		assert.False(t, dropped)
	}

	assert.Equal(t, 3, q.len())

	ev, ok := q.pop()
	assert.True(t, ok)
	assert.Equal(t, uint8(0), ev.ID)
}

func TestCircularQueue_DropsOldestWhenFull(t *testing.T) {
	q := newCircularQueue(2)

	q.push(mievent.Event{ID: 1})
	q.push(mievent.Event{ID: 2})

	dropped := q.push(mievent.Event{ID: 3})
	assert.True(t, dropped)

	ev, ok := q.pop()
	assert.True(t, ok)
	assert.Equal(t, uint8(2), ev.ID, "oldest entry (ID 1) should have been evicted")

	ev, ok = q.pop()
	assert.True(t, ok)
	assert.Equal(t, uint8(3), ev.ID)

	_, ok = q.pop()
	assert.False(t, ok)
}

func TestCircularQueue_MinimumCapacityOne(t *testing.T) {
	q := newCircularQueue(0)
	assert.Equal(t, 1, len(q.buf))
}
