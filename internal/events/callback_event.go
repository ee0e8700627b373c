// Package events provides a small typed observer primitive used by the
// timer engine and the session runner for notification fan-out.
package events

import "sync"

// CallbackEvent is a type-safe publish/subscribe point. Listeners are
// invoked in registration order and outside the event's lock, so a
// listener may call back into the emitter or deregister itself safely.
type CallbackEvent[T any] struct {
	mu         sync.RWMutex
	listeners  []listener[T]
	nextID     uint64
	replayLast bool
	last       *T
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// NewCallbackEvent creates an event point. When replayLast is true, a
// newly registered listener is immediately invoked with the most recently
// notified value, if any, so late-attaching observers catch up on the
// current state.
func NewCallbackEvent[T any](replayLast bool) *CallbackEvent[T] {
	return &CallbackEvent[T]{replayLast: replayLast}
}

// Listen registers fn and returns its deregistration function. Calling
// the returned function more than once is safe.
func (e *CallbackEvent[T]) Listen(fn func(T)) func() {
	if fn == nil {
		panic("events: nil listener")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})
	var replay *T
	if e.replayLast && e.last != nil {
		v := *e.last
		replay = &v
	}
	e.mu.Unlock()

	// Replay happens outside the lock to avoid deadlock.
	if replay != nil {
		fn(*replay)
	}

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				break
			}
		}
	}
}

// Notify invokes every registered listener with value, in registration
// order. Listeners run outside the lock, against a snapshot of the
// listener list taken at the moment of the call.
func (e *CallbackEvent[T]) Notify(value T) {
	e.mu.Lock()
	if e.replayLast {
		v := value
		e.last = &v
	}
	snapshot := make([]listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.fn(value)
	}
}

// ListenerCount returns the current number of registered listeners.
func (e *CallbackEvent[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
