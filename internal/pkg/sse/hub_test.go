package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyTargetUser(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe("a")
	defer cancelA()
	b, cancelB := h.Subscribe("b")
	defer cancelB()

	n := h.Publish("a", Event{Type: "notification", Data: "hello"})
	assert.Equal(t, 1, n)

	ev := <-a
	assert.Equal(t, "notification", ev.Type)
	assert.Equal(t, "hello", ev.Data)
	assert.Len(t, b, 0)
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("a")
	require.Equal(t, 1, h.SubscriberCount("a"))

	cancel()
	cancel()

	assert.Equal(t, 0, h.SubscriberCount("a"))
	_, open := <-ch
	assert.False(t, open)
}

func TestHub_SlowSubscriberDropsEvents(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe("a")
	defer cancel()

	for i := 0; i < subscriberBuffer; i++ {
		require.Equal(t, 1, h.Publish("a", Event{Type: "x"}))
	}
	assert.Equal(t, 0, h.Publish("a", Event{Type: "x"}))
}

func TestHub_CloseEndsStreams(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("a")

	h.Close()
	_, open := <-ch
	assert.False(t, open)

	// cancel after Close must not double close
	cancel()
	assert.Equal(t, 0, h.SubscriberCount("a"))
}
