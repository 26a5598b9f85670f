package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/colonyops/docsync/internal/core/eventbus"
	"github.com/colonyops/docsync/internal/core/eventbus/testbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndDelete(t *testing.T) {
	d := New("mem", "hllo", nil)

	d.MoveRight()
	d.Insert("e")
	assert.Equal(t, "hello", d.Text())
	assert.Equal(t, 2, d.Cursor())
	assert.True(t, d.Modified())

	d.Backspace()
	assert.Equal(t, "hllo", d.Text())
	assert.Equal(t, 1, d.Cursor())

	d.Delete()
	assert.Equal(t, "hlo", d.Text())
	assert.Equal(t, 1, d.Cursor())

	d.MoveTo(100, eventbus.MoveNavigate)
	d.Delete()
	assert.Equal(t, "hlo", d.Text(), "delete at end is a no-op")

	d.MoveTo(0, eventbus.MoveNavigate)
	d.Backspace()
	assert.Equal(t, "hlo", d.Text(), "backspace at start is a no-op")
}

func TestInsert_CodePoints(t *testing.T) {
	d := New("mem", "ab", nil)
	d.MoveRight()
	d.Insert("😀\r\n")

	assert.Equal(t, "a😀\nb", d.Text())
	assert.Equal(t, 3, d.Cursor())
	assert.Equal(t, 4, d.Len())
}

func TestMoveUpDown(t *testing.T) {
	d := New("mem", "abcdef\nab\nabcdef", nil)

	d.MoveTo(5, eventbus.MoveNavigate)
	d.MoveDown()
	assert.Equal(t, 9, d.Cursor(), "clamped to end of the short line")

	d.MoveDown()
	assert.Equal(t, 12, d.Cursor())

	d.MoveDown()
	assert.Equal(t, 16, d.Cursor(), "last line moves to the end")

	d.MoveTo(8, eventbus.MoveNavigate)
	d.MoveUp()
	assert.Equal(t, 1, d.Cursor())

	d.MoveUp()
	assert.Equal(t, 0, d.Cursor(), "first line moves to the start")
}

func TestMoveHomeEnd(t *testing.T) {
	d := New("mem", "one\ntwo three", nil)
	d.MoveTo(6, eventbus.MoveNavigate)

	d.MoveEnd()
	assert.Equal(t, 13, d.Cursor())
	d.MoveHome()
	assert.Equal(t, 4, d.Cursor())
}

func TestGoTo(t *testing.T) {
	text := "first\n    indented\nlast"

	tests := []struct {
		name   string
		line   int
		column int
		want   int
	}{
		{name: "start", line: 1, column: 1, want: 0},
		{name: "column", line: 1, column: 3, want: 2},
		{name: "column past end of line", line: 1, column: 50, want: 5},
		{name: "no column skips indentation", line: 2, column: 0, want: 10},
		{name: "line past end", line: 9, column: 3, want: 19},
		{name: "line below one", line: -4, column: 2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New("mem", text, nil)
			d.GoTo(tt.line, tt.column)
			assert.Equal(t, tt.want, d.Cursor())
		})
	}
}

func TestLineCol(t *testing.T) {
	d := New("mem", "ab\ncd\n", nil)

	line, col := d.LineCol()
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	d.MoveTo(4, eventbus.MoveNavigate)
	line, col = d.LineCol()
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	d.MoveTo(6, eventbus.MoveNavigate)
	line, col = d.LineCol()
	assert.Equal(t, 3, line)
	assert.Equal(t, 1, col)
}

func TestCursorEvents(t *testing.T) {
	tb := testbus.New(t)
	d := New("doc", "abc", tb.EventBus)

	d.MoveRight()
	d.Insert("x")
	d.MoveCursor(0)
	d.MoveLeft() // no-op at start, no event

	require.Eventually(t, func() bool { return tb.Count(eventbus.EventCursorMoved) == 3 }, testTimeout, testTick)

	var got []eventbus.CursorMovedPayload
	for _, e := range tb.Events() {
		if e.Event == eventbus.EventCursorMoved {
			got = append(got, e.Payload.(eventbus.CursorMovedPayload))
		}
	}

	assert.Equal(t, []eventbus.CursorMovedPayload{
		{DocumentID: "doc", Offset: 1, Version: 1, Reason: eventbus.MoveNavigate},
		{DocumentID: "doc", Offset: 2, Version: 2, Reason: eventbus.MoveEdit},
		{DocumentID: "doc", Offset: 0, Version: 3, Reason: eventbus.MoveSync},
	}, got)
	assert.Equal(t, uint64(3), d.Version())
}

func TestOpenSaveReload(t *testing.T) {
	tb := testbus.New(t)
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes\n"), 0o644))

	d, err := Open(path, tb.EventBus)
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n", d.Text())
	assert.Equal(t, path, d.Path())
	assert.False(t, d.Modified())

	loaded := testbus.FindPayload[eventbus.DocumentLoadedPayload](tb, t, eventbus.EventDocumentLoaded)
	assert.Equal(t, 8, loaded.Length)

	d.MoveTo(7, eventbus.MoveNavigate)
	d.Insert(" and more")
	assert.ErrorIs(t, d.Reload(), ErrUnsavedChanges)

	require.NoError(t, d.Save())
	assert.False(t, d.Modified())
	tb.AssertPublished(t, eventbus.EventDocumentSaved)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Notes and more\n", string(data))

	require.NoError(t, os.WriteFile(path, []byte("short"), 0o644))
	require.NoError(t, d.Reload())
	assert.Equal(t, "short", d.Text())
	assert.Equal(t, 5, d.Cursor(), "cursor clamped into the new text")
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.md"), nil)
	require.Error(t, err)
}

func TestSave_NoPath(t *testing.T) {
	d := New("mem", "x", nil)
	assert.ErrorIs(t, d.Save(), ErrNoPath)
	assert.ErrorIs(t, d.Reload(), ErrNoPath)
}
