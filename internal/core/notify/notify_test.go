package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_AddAndList(t *testing.T) {
	log := NewLog(10)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	log.now = func() time.Time { return fixed }

	first := log.Add(LevelInfo, "saved")
	second := log.Add(LevelWarning, "no match")

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, fixed, second.CreatedAt)

	items := log.List()
	require.Len(t, items, 2)
	assert.Equal(t, "saved", items[0].Message)
	assert.Equal(t, LevelWarning, items[1].Level)
}

func TestLog_EvictsOldest(t *testing.T) {
	log := NewLog(2)
	log.Add(LevelInfo, "a")
	log.Add(LevelInfo, "b")
	log.Add(LevelInfo, "c")

	items := log.List()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].Message)
	assert.Equal(t, "c", items[1].Message)
	assert.Equal(t, int64(3), items[1].ID)
}

func TestLog_Latest(t *testing.T) {
	log := NewLog(0)

	_, ok := log.Latest()
	assert.False(t, ok)

	log.Add(LevelError, "boom")
	n, ok := log.Latest()
	require.True(t, ok)
	assert.Equal(t, "boom", n.Message)
}

func TestLog_Clear(t *testing.T) {
	log := NewLog(5)
	log.Add(LevelInfo, "a")
	log.Clear()
	assert.Equal(t, 0, log.Count())

	n := log.Add(LevelInfo, "b")
	assert.Equal(t, int64(2), n.ID, "ids keep increasing after clear")
}
