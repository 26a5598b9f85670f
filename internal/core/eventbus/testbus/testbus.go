// Package testbus runs a real EventBus that records everything it delivers,
// with helpers to wait for and assert on those events.
package testbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/colonyops/docsync/internal/core/eventbus"
)

// RecordedEvent holds a captured event name and payload.
type RecordedEvent struct {
	Event   eventbus.Event
	Payload any
}

// Bus wraps a real EventBus with event recording for tests.
type Bus struct {
	*eventbus.EventBus

	mu      sync.Mutex
	events  []RecordedEvent
	changed chan struct{} // closed and replaced on every record
}

// New starts a recording bus that is stopped when the test completes.
func New(t *testing.T) *Bus {
	t.Helper()

	tb := &Bus{
		EventBus: eventbus.New(64),
		changed:  make(chan struct{}),
	}

	tb.SubscribeConfigReloaded(recorder[eventbus.ConfigReloadedPayload](tb, eventbus.EventConfigReloaded))
	tb.SubscribeContentClicked(recorder[eventbus.ContentClickedPayload](tb, eventbus.EventContentClicked))
	tb.SubscribeCursorMoved(recorder[eventbus.CursorMovedPayload](tb, eventbus.EventCursorMoved))
	tb.SubscribeDocumentLoaded(recorder[eventbus.DocumentLoadedPayload](tb, eventbus.EventDocumentLoaded))
	tb.SubscribeDocumentSaved(recorder[eventbus.DocumentSavedPayload](tb, eventbus.EventDocumentSaved))
	tb.SubscribeNotificationPublished(recorder[eventbus.NotificationPublishedPayload](tb, eventbus.EventNotificationPublished))
	tb.SubscribeSyncApplied(recorder[eventbus.SyncAppliedPayload](tb, eventbus.EventSyncApplied))
	tb.SubscribeSyncSkipped(recorder[eventbus.SyncSkippedPayload](tb, eventbus.EventSyncSkipped))

	ctx, cancel := context.WithCancel(context.Background())
	go tb.Start(ctx)
	t.Cleanup(cancel)

	return tb
}

func recorder[T any](tb *Bus, event eventbus.Event) func(T) {
	return func(p T) {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		tb.events = append(tb.events, RecordedEvent{Event: event, Payload: p})
		close(tb.changed)
		tb.changed = make(chan struct{})
	}
}

// Events returns a copy of all recorded events.
func (tb *Bus) Events() []RecordedEvent {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return append([]RecordedEvent(nil), tb.events...)
}

// Reset clears all recorded events.
func (tb *Bus) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.events = nil
}

// Count returns how many events of the given type were recorded.
func (tb *Bus) Count(event eventbus.Event) int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.countLocked(event)
}

func (tb *Bus) countLocked(event eventbus.Event) int {
	n := 0
	for _, e := range tb.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// WaitFor blocks until an event of the given type has been recorded or the
// timeout expires, and reports whether it was seen.
func (tb *Bus) WaitFor(event eventbus.Event, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		tb.mu.Lock()
		seen := tb.countLocked(event) > 0
		changed := tb.changed
		tb.mu.Unlock()

		if seen {
			return true
		}
		select {
		case <-changed:
		case <-timer.C:
			return false
		}
	}
}

// AssertPublished fails the test unless the event is recorded within 500ms.
func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	if !tb.WaitFor(event, 500*time.Millisecond) {
		t.Errorf("expected event %q to be published, but it was not", event)
	}
}

// AssertNotPublished fails the test if the event is recorded within wait.
func (tb *Bus) AssertNotPublished(t *testing.T, event eventbus.Event, wait time.Duration) {
	t.Helper()
	if wait > 0 && tb.WaitFor(event, wait) || tb.Count(event) > 0 {
		t.Errorf("expected event %q to NOT be published, but it was", event)
	}
}

// FindPayload waits for an event and returns the payload of its latest occurrence.
func FindPayload[T any](tb *Bus, t *testing.T, event eventbus.Event) T {
	t.Helper()
	tb.AssertPublished(t, event)

	var zero T
	events := tb.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Event != event {
			continue
		}
		p, ok := events[i].Payload.(T)
		if !ok {
			t.Fatalf("event %q carries %T, not %T", event, events[i].Payload, zero)
		}
		return p
	}
	return zero
}
