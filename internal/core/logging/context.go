package logging

import "context"

type syncKey struct{}

// syncFields identifies one sync attempt in log output.
type syncFields struct {
	documentID string
	direction  string
	attempt    uint64
}

func fields(ctx context.Context) syncFields {
	f, _ := ctx.Value(syncKey{}).(syncFields)
	return f
}

// WithSync tags ctx with everything that identifies a sync attempt. Attempts
// are numbered by the caller so that related log lines can be grouped.
func WithSync(ctx context.Context, documentID, direction string, attempt uint64) context.Context {
	return context.WithValue(ctx, syncKey{}, syncFields{documentID: documentID, direction: direction, attempt: attempt})
}

// WithDocumentID adds a document ID to the context.
func WithDocumentID(ctx context.Context, documentID string) context.Context {
	f := fields(ctx)
	f.documentID = documentID
	return context.WithValue(ctx, syncKey{}, f)
}

// WithDirection adds a sync direction to the context.
func WithDirection(ctx context.Context, direction string) context.Context {
	f := fields(ctx)
	f.direction = direction
	return context.WithValue(ctx, syncKey{}, f)
}

// GetDocumentID returns the document ID in ctx, or "".
func GetDocumentID(ctx context.Context) string { return fields(ctx).documentID }

// GetDirection returns the sync direction in ctx, or "".
func GetDirection(ctx context.Context) string { return fields(ctx).direction }

// GetAttempt returns the sync attempt number in ctx, or 0.
func GetAttempt(ctx context.Context) uint64 { return fields(ctx).attempt }
