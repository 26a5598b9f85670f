package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus delivers published events to subscribers on a single dispatch
// goroutine, in publish order. Publishing never blocks: when the buffer is
// full the event is dropped and OnDrop hooks fire.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given buffer size. Start must be running for
// subscribers to receive anything.
func New(buffer int) *EventBus {
	if buffer < 1 {
		buffer = 1
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	if bus == nil {
		return
	}
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

func subscribe[T any](bus *EventBus, event Event, fn func(T)) {
	bus.subscribe(event, func(p any) {
		payload, ok := p.(T)
		if !ok {
			return
		}
		fn(payload)
	})
}

// PublishConfigReloaded publishes a config.reloaded event.
func (bus *EventBus) PublishConfigReloaded(p ConfigReloadedPayload) {
	bus.send(EventConfigReloaded, p)
}

// SubscribeConfigReloaded registers fn for config.reloaded events.
func (bus *EventBus) SubscribeConfigReloaded(fn func(ConfigReloadedPayload)) {
	subscribe(bus, EventConfigReloaded, fn)
}

// PublishContentClicked publishes a content.clicked event.
func (bus *EventBus) PublishContentClicked(p ContentClickedPayload) {
	bus.send(EventContentClicked, p)
}

// SubscribeContentClicked registers fn for content.clicked events.
func (bus *EventBus) SubscribeContentClicked(fn func(ContentClickedPayload)) {
	subscribe(bus, EventContentClicked, fn)
}

// PublishCursorMoved publishes a cursor.moved event.
func (bus *EventBus) PublishCursorMoved(p CursorMovedPayload) {
	bus.send(EventCursorMoved, p)
}

// SubscribeCursorMoved registers fn for cursor.moved events.
func (bus *EventBus) SubscribeCursorMoved(fn func(CursorMovedPayload)) {
	subscribe(bus, EventCursorMoved, fn)
}

// PublishDocumentLoaded publishes a document.loaded event.
func (bus *EventBus) PublishDocumentLoaded(p DocumentLoadedPayload) {
	bus.send(EventDocumentLoaded, p)
}

// SubscribeDocumentLoaded registers fn for document.loaded events.
func (bus *EventBus) SubscribeDocumentLoaded(fn func(DocumentLoadedPayload)) {
	subscribe(bus, EventDocumentLoaded, fn)
}

// PublishDocumentSaved publishes a document.saved event.
func (bus *EventBus) PublishDocumentSaved(p DocumentSavedPayload) {
	bus.send(EventDocumentSaved, p)
}

// SubscribeDocumentSaved registers fn for document.saved events.
func (bus *EventBus) SubscribeDocumentSaved(fn func(DocumentSavedPayload)) {
	subscribe(bus, EventDocumentSaved, fn)
}

// PublishNotificationPublished publishes a notification.published event.
func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

// SubscribeNotificationPublished registers fn for notification.published events.
func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	subscribe(bus, EventNotificationPublished, fn)
}

// PublishSyncApplied publishes a sync.applied event.
func (bus *EventBus) PublishSyncApplied(p SyncAppliedPayload) {
	bus.send(EventSyncApplied, p)
}

// SubscribeSyncApplied registers fn for sync.applied events.
func (bus *EventBus) SubscribeSyncApplied(fn func(SyncAppliedPayload)) {
	subscribe(bus, EventSyncApplied, fn)
}

// PublishSyncSkipped publishes a sync.skipped event.
func (bus *EventBus) PublishSyncSkipped(p SyncSkippedPayload) {
	bus.send(EventSyncSkipped, p)
}

// SubscribeSyncSkipped registers fn for sync.skipped events.
func (bus *EventBus) SubscribeSyncSkipped(fn func(SyncSkippedPayload)) {
	subscribe(bus, EventSyncSkipped, fn)
}
