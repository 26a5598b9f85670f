// Package eventbus provides a typed publish/subscribe event bus connecting
// the document, the preview, and the position sync coordinator.
package eventbus

import (
	"time"

	"github.com/colonyops/docsync/internal/core/config"
	"github.com/colonyops/docsync/internal/core/notify"
)

// Event names a bus topic.
type Event string

// Keep list sorted A-Z
const (
	EventConfigReloaded        Event = "config.reloaded"
	EventContentClicked        Event = "content.clicked"
	EventCursorMoved           Event = "cursor.moved"
	EventDocumentLoaded        Event = "document.loaded"
	EventDocumentSaved         Event = "document.saved"
	EventNotificationPublished Event = "notification.published"
	EventSyncApplied           Event = "sync.applied"
	EventSyncSkipped           Event = "sync.skipped"
)

// Events lists every event name.
var Events = []Event{
	EventConfigReloaded,
	EventContentClicked,
	EventCursorMoved,
	EventDocumentLoaded,
	EventDocumentSaved,
	EventNotificationPublished,
	EventSyncApplied,
	EventSyncSkipped,
}

// MoveReason describes why a document cursor moved.
type MoveReason string

const (
	MoveEdit     MoveReason = "edit"
	MoveNavigate MoveReason = "navigate"
	MoveLoad     MoveReason = "load"
	// MoveSync marks a move made by the coordinator itself. Subscribers that
	// trigger syncs must ignore it.
	MoveSync MoveReason = "sync"
)

// SyncDirection says which side a sync started from.
type SyncDirection string

const (
	SyncTextToView SyncDirection = "text-to-view"
	SyncViewToText SyncDirection = "view-to-text"
)

// SkipReason explains why a sync did not move anything.
type SkipReason string

const (
	SkipNotFound SkipReason = "not-found"
	SkipHidden   SkipReason = "hidden"
	SkipStale    SkipReason = "stale"
	SkipError    SkipReason = "error"
)

// ConfigReloadedPayload is emitted when configuration is reloaded.
type ConfigReloadedPayload struct {
	Config *config.Config
}

// ContentClickedPayload is emitted when the user clicks in the rendered view.
// Offset is a code point offset into the rendered text.
type ContentClickedPayload struct {
	DocumentID string
	Offset     int
}

// CursorMovedPayload is emitted whenever the document cursor changes.
// Version increases with every edit or move.
type CursorMovedPayload struct {
	DocumentID string
	Offset     int
	Version    uint64
	Reason     MoveReason
}

// DocumentLoadedPayload is emitted after a document is opened or reloaded.
type DocumentLoadedPayload struct {
	DocumentID string
	Path       string
	Length     int
}

// DocumentSavedPayload is emitted after a document is written to disk.
type DocumentSavedPayload struct {
	DocumentID string
	Path       string
}

// NotificationPublishedPayload carries a user-facing notification.
type NotificationPublishedPayload struct {
	Level   notify.Level
	Message string
}

// SyncAppliedPayload is emitted when a sync moved the other side.
type SyncAppliedPayload struct {
	DocumentID string
	Direction  SyncDirection
	From       int
	To         int
	Took       time.Duration
}

// SyncSkippedPayload is emitted when a sync ran but left both sides alone.
type SyncSkippedPayload struct {
	DocumentID string
	Direction  SyncDirection
	From       int
	Reason     SkipReason
	Detail     string
}
