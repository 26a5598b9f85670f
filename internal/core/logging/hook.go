package logging

import (
	"github.com/rs/zerolog"
)

// ContextHook copies the sync fields stored in an event's context onto the
// event. Install it on the root logger; events without a context are untouched.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	f := fields(ctx)
	if f.documentID != "" {
		e.Str("document_id", f.documentID)
	}
	if f.direction != "" {
		e.Str("direction", f.direction)
	}
	if f.attempt > 0 {
		e.Uint64("attempt", f.attempt)
	}
}
