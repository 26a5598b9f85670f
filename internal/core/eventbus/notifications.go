package eventbus

import (
	"fmt"
	"path/filepath"

	"github.com/colonyops/docsync/internal/core/notify"
)

// NotificationRouter maps domain events to user-facing notifications.
type NotificationRouter struct {
	bus *EventBus
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeDocumentSaved(func(p DocumentSavedPayload) {
		r.notifyf(notify.LevelInfo, "saved %s", filepath.Base(p.Path))
	})

	r.bus.SubscribeConfigReloaded(func(p ConfigReloadedPayload) {
		if p.Config == nil {
			return
		}
		r.notifyf(notify.LevelInfo, "configuration reloaded")
	})

	r.bus.SubscribeSyncSkipped(func(p SyncSkippedPayload) {
		switch p.Reason {
		case SkipError:
			r.notifyf(notify.LevelError, "sync failed: %s", p.Detail)
		case SkipNotFound:
			if p.Direction == SyncViewToText {
				r.notifyf(notify.LevelWarning, "no matching source position for preview offset %d", p.From)
			}
		}
	})
}

func (r *NotificationRouter) notifyf(level notify.Level, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}
