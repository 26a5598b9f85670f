package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDocumentID(t *testing.T) {
	ctx := WithDocumentID(context.Background(), "README.md")
	assert.Equal(t, "README.md", GetDocumentID(ctx))
}

func TestWithDirection_KeepsDocument(t *testing.T) {
	ctx := WithDocumentID(context.Background(), "README.md")
	ctx = WithDirection(ctx, "text-to-view")
	assert.Equal(t, "text-to-view", GetDirection(ctx))
	assert.Equal(t, "README.md", GetDocumentID(ctx))
}

func TestWithSync(t *testing.T) {
	ctx := WithSync(context.Background(), "doc", "view-to-text", 7)
	assert.Equal(t, "doc", GetDocumentID(ctx))
	assert.Equal(t, "view-to-text", GetDirection(ctx))
	assert.Equal(t, uint64(7), GetAttempt(ctx))
}

func TestGetters_NotPresent(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetDocumentID(ctx))
	assert.Empty(t, GetDirection(ctx))
	assert.Zero(t, GetAttempt(ctx))
}
