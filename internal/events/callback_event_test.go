package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallbackEvent(t *testing.T) {
	event := NewCallbackEvent[string](false)
	require.NotNil(t, event)
	assert.Equal(t, 0, event.ListenerCount())
	assert.False(t, event.replayLast)

	event2 := NewCallbackEvent[int](true)
	require.NotNil(t, event2)
	assert.True(t, event2.replayLast)
}

func TestEvent_ListenNotifyDeregister(t *testing.T) {
	event := NewCallbackEvent[string](false)

	var mu sync.Mutex
	received := make([]string, 0)

	deregister := event.Listen(func(value string) {
		mu.Lock()
		received = append(received, value)
		mu.Unlock()
	})

	assert.Equal(t, 1, event.ListenerCount())

	event.Notify("working")
	event.Notify("resting")

	mu.Lock()
	assert.Equal(t, []string{"working", "resting"}, received)
	mu.Unlock()

	deregister()
	assert.Equal(t, 0, event.ListenerCount())

	event.Notify("completed")
	mu.Lock()
	assert.Equal(t, 2, len(received))
	mu.Unlock()
}

func TestEvent_ListenersRunInRegistrationOrder(t *testing.T) {
	event := NewCallbackEvent[int](false)

	var mu sync.Mutex
	order := make([]string, 0)

	first := event.Listen(func(int) {
		mu.Lock()
		order = append(order, "first")
		mu.Unlock()
	})
	second := event.Listen(func(int) {
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
	})
	third := event.Listen(func(int) {
		mu.Lock()
		order = append(order, "third")
		mu.Unlock()
	})

	event.Notify(1)

	mu.Lock()
	assert.Equal(t, []string{"first", "second", "third"}, order)
	mu.Unlock()

	first()
	second()
	third()
	assert.Equal(t, 0, event.ListenerCount())
}

func TestEvent_ReplayLast(t *testing.T) {
	event := NewCallbackEvent[int](true)

	// No notify yet: nothing to replay.
	var early []int
	stopEarly := event.Listen(func(v int) { early = append(early, v) })
	assert.Equal(t, 0, len(early))

	event.Notify(42)
	assert.Equal(t, []int{42}, early)

	// Late listener catches up immediately.
	var late []int
	stopLate := event.Listen(func(v int) { late = append(late, v) })
	assert.Equal(t, []int{42}, late)

	event.Notify(7)
	assert.Equal(t, []int{42, 7}, early)
	assert.Equal(t, []int{42, 7}, late)

	stopEarly()
	stopLate()
}

func TestEvent_NoReplayWhenDisabled(t *testing.T) {
	event := NewCallbackEvent[string](false)

	event.Notify("missed")

	var received []string
	stop := event.Listen(func(v string) { received = append(received, v) })
	defer stop()

	assert.Equal(t, 0, len(received))

	event.Notify("seen")
	assert.Equal(t, []string{"seen"}, received)
}

func TestEvent_DeregisterDuringNotify(t *testing.T) {
	event := NewCallbackEvent[string](false)

	var mu sync.Mutex
	received := make([]string, 0)
	var deregister func()

	deregister = event.Listen(func(value string) {
		mu.Lock()
		received = append(received, value)
		mu.Unlock()
		if value == "last" {
			deregister()
		}
	})

	event.Notify("tick")
	event.Notify("last")
	event.Notify("after")

	mu.Lock()
	assert.Equal(t, []string{"tick", "last"}, received)
	mu.Unlock()
	assert.Equal(t, 0, event.ListenerCount())
}

func TestEvent_DeregisterTwiceIsSafe(t *testing.T) {
	event := NewCallbackEvent[string](false)

	keep := event.Listen(func(string) {})
	gone := event.Listen(func(string) {})
	assert.Equal(t, 2, event.ListenerCount())

	gone()
	gone()
	gone()
	assert.Equal(t, 1, event.ListenerCount())

	keep()
	assert.Equal(t, 0, event.ListenerCount())
}

func TestEvent_NilListenerPanics(t *testing.T) {
	event := NewCallbackEvent[int](false)
	assert.Panics(t, func() {
		event.Listen(nil)
	})
}

func TestEvent_StructPayloadIsCopied(t *testing.T) {
	type note struct {
		Phase     string
		Remaining int
	}

	event := NewCallbackEvent[note](true)

	var got note
	stop := event.Listen(func(n note) { got = n })
	defer stop()

	sent := note{Phase: "working", Remaining: 30}
	event.Notify(sent)
	sent.Remaining = 0

	assert.Equal(t, "working", got.Phase)
	assert.Equal(t, 30, got.Remaining)

	// Replay hands the stored copy to a late listener.
	var replayed note
	stopLate := event.Listen(func(n note) { replayed = n })
	defer stopLate()
	assert.Equal(t, 30, replayed.Remaining)
}

func TestEvent_ConcurrentNotify(t *testing.T) {
	event := NewCallbackEvent[int](false)

	var mu sync.Mutex
	total := 0
	stops := make([]func(), 0, 8)
	for i := 0; i < 8; i++ {
		stops = append(stops, event.Listen(func(int) {
			mu.Lock()
			total++
			mu.Unlock()
		}))
	}

	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		go func(v int) {
			defer wg.Done()
			event.Notify(v)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 40, total)
	mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	assert.Equal(t, 0, event.ListenerCount())
}
