package eventbus

import (
	"sync"
	"sync/atomic"
)

// hooks holds the lifecycle callbacks of an EventBus. Hooks run on the
// goroutine that triggered them: OnPublish, OnDrop and OnSubscribe on the
// caller, OnPanic on the dispatch goroutine.
type hooks struct {
	mu          sync.RWMutex
	onPublish   []func(Event, any)
	onDrop      []func(Event, any)
	onSubscribe []func(Event)
	onPanic     []func(Event, any, any)

	dropped atomic.Uint64
}

// OnPublish registers a hook that fires after an event is enqueued.
func (bus *EventBus) OnPublish(fn func(Event, any)) {
	addHook(bus, &bus.hooks.onPublish, fn)
}

// OnDrop registers a hook that fires when an event is dropped due to a full buffer.
func (bus *EventBus) OnDrop(fn func(Event, any)) {
	addHook(bus, &bus.hooks.onDrop, fn)
}

// OnSubscribe registers a hook that fires after a subscriber is registered.
func (bus *EventBus) OnSubscribe(fn func(Event)) {
	addHook(bus, &bus.hooks.onSubscribe, fn)
}

// OnPanic registers a hook that fires when a subscriber panics. A panicking
// hook is ignored.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) {
	addHook(bus, &bus.hooks.onPanic, fn)
}

// Dropped returns how many events have been dropped since the bus was created.
func (bus *EventBus) Dropped() uint64 {
	if bus == nil {
		return 0
	}
	return bus.hooks.dropped.Load()
}

func addHook[F any](bus *EventBus, list *[]F, fn F) {
	bus.hooks.mu.Lock()
	defer bus.hooks.mu.Unlock()
	*list = append(*list, fn)
}

// snapshot copies a hook list so hooks run without holding the lock.
func snapshot[F any](bus *EventBus, list *[]F) []F {
	bus.hooks.mu.RLock()
	defer bus.hooks.mu.RUnlock()
	return append([]F(nil), *list...)
}

// send enqueues an event and fires hooks. A nil bus discards everything.
func (bus *EventBus) send(event Event, payload any) {
	if bus == nil {
		return
	}
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		for _, fn := range snapshot(bus, &bus.hooks.onPublish) {
			fn(event, payload)
		}
	default:
		bus.hooks.dropped.Add(1)
		for _, fn := range snapshot(bus, &bus.hooks.onDrop) {
			fn(event, payload)
		}
	}
}

func (bus *EventBus) runOnSubscribe(event Event) {
	for _, fn := range snapshot(bus, &bus.hooks.onSubscribe) {
		fn(event)
	}
}

func (bus *EventBus) runOnPanic(event Event, payload any, recovered any) {
	for _, fn := range snapshot(bus, &bus.hooks.onPanic) {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(event, payload, recovered)
		}()
	}
}
