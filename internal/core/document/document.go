// Package document holds the text being edited: a rune buffer with a cursor
// and a version counter. Every cursor change is published on the event bus as
// cursor.moved so the sync coordinator can follow it.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/colonyops/docsync/internal/core/eventbus"
	"github.com/colonyops/docsync/internal/core/logging"
	"github.com/rs/zerolog"
)

var (
	// ErrNoPath is returned by Save and Reload for documents without a file.
	ErrNoPath = errors.New("document has no file path")
	// ErrUnsavedChanges is returned by Reload when local edits would be lost.
	ErrUnsavedChanges = errors.New("document has unsaved changes")
)

// Document is an editable text buffer. Offsets are code point offsets and
// the cursor is a gap offset in [0, Len()]. Safe for concurrent use.
type Document struct {
	id   string
	path string
	bus  *eventbus.EventBus
	log  zerolog.Logger

	mu      sync.Mutex
	text    []rune
	cursor  int
	version uint64
	edits   uint64
	saved   uint64
}

// New creates an in-memory document.
func New(id, text string, bus *eventbus.EventBus) *Document {
	return &Document{
		id:   id,
		bus:  bus,
		log:  logging.ForDocument("document", id),
		text: []rune(text),
	}
}

// Open reads path into a new document. The document ID is the cleaned path.
func Open(path string, bus *eventbus.EventBus) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}

	id := filepath.Clean(path)
	d := New(id, string(data), bus)
	d.path = path
	d.log.Debug().Str("path", path).Int("len", len(d.text)).Msg("document opened")

	d.bus.PublishDocumentLoaded(eventbus.DocumentLoadedPayload{DocumentID: id, Path: path, Length: len(d.text)})
	return d, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Path returns the backing file path, empty for in-memory documents.
func (d *Document) Path() string { return d.path }

// Text returns the current contents.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.text)
}

// Len returns the length in code points.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.text)
}

// Cursor returns the cursor offset.
func (d *Document) Cursor() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

// Version returns the number of edits and cursor moves so far.
func (d *Document) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Modified reports whether the text changed since it was opened or saved.
func (d *Document) Modified() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edits != d.saved
}

// Save writes the text to the document's path.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoPath
	}

	d.mu.Lock()
	data := []byte(string(d.text))
	edits := d.edits
	d.mu.Unlock()

	if err := os.WriteFile(d.path, data, 0o644); err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	d.mu.Lock()
	d.saved = edits
	d.mu.Unlock()

	d.log.Info().Str("path", d.path).Msg("document saved")
	d.bus.PublishDocumentSaved(eventbus.DocumentSavedPayload{DocumentID: d.id, Path: d.path})
	return nil
}

// Reload replaces the text with the file contents, keeping the cursor as
// close to its old offset as the new text allows. It refuses to discard
// unsaved edits and does nothing when the file is unchanged.
func (d *Document) Reload() error {
	if d.path == "" {
		return ErrNoPath
	}
	if d.Modified() {
		return ErrUnsavedChanges
	}

	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("reload document: %w", err)
	}

	d.mu.Lock()
	if string(data) == string(d.text) {
		d.mu.Unlock()
		return nil
	}
	d.text = []rune(string(data))
	n := len(d.text)
	moved := d.setCursorLocked(d.cursor, eventbus.MoveLoad, true)
	d.mu.Unlock()

	d.log.Debug().Int("len", n).Msg("document reloaded")
	d.bus.PublishDocumentLoaded(eventbus.DocumentLoadedPayload{DocumentID: d.id, Path: d.path, Length: n})
	d.publish(moved)
	return nil
}

// Insert inserts s at the cursor and moves the cursor past it.
func (d *Document) Insert(s string) {
	if s == "" {
		return
	}
	ins := []rune(strings.ReplaceAll(s, "\r\n", "\n"))

	d.mu.Lock()
	text := make([]rune, 0, len(d.text)+len(ins))
	text = append(text, d.text[:d.cursor]...)
	text = append(text, ins...)
	text = append(text, d.text[d.cursor:]...)
	d.text = text
	d.edits++
	moved := d.setCursorLocked(d.cursor+len(ins), eventbus.MoveEdit, true)
	d.mu.Unlock()

	d.publish(moved)
}

// Backspace deletes the code point before the cursor.
func (d *Document) Backspace() {
	d.mu.Lock()
	if d.cursor == 0 {
		d.mu.Unlock()
		return
	}
	d.text = append(d.text[:d.cursor-1], d.text[d.cursor:]...)
	d.edits++
	moved := d.setCursorLocked(d.cursor-1, eventbus.MoveEdit, true)
	d.mu.Unlock()

	d.publish(moved)
}

// Delete deletes the code point after the cursor.
func (d *Document) Delete() {
	d.mu.Lock()
	if d.cursor == len(d.text) {
		d.mu.Unlock()
		return
	}
	d.text = append(d.text[:d.cursor], d.text[d.cursor+1:]...)
	d.edits++
	moved := d.setCursorLocked(d.cursor, eventbus.MoveEdit, true)
	d.mu.Unlock()

	d.publish(moved)
}

// MoveTo places the cursor at offset, clamped into range.
func (d *Document) MoveTo(offset int, reason eventbus.MoveReason) {
	d.mu.Lock()
	moved := d.setCursorLocked(offset, reason, false)
	d.mu.Unlock()
	d.publish(moved)
}

// MoveCursor places the cursor on behalf of the sync coordinator.
func (d *Document) MoveCursor(offset int) {
	d.MoveTo(offset, eventbus.MoveSync)
}

// MoveLeft moves the cursor one code point left.
func (d *Document) MoveLeft() { d.moveBy(func(c int, _ []rune) int { return c - 1 }) }

// MoveRight moves the cursor one code point right.
func (d *Document) MoveRight() { d.moveBy(func(c int, _ []rune) int { return c + 1 }) }

// MoveHome moves the cursor to the start of its line.
func (d *Document) MoveHome() { d.moveBy(func(c int, t []rune) int { return lineStart(t, c) }) }

// MoveEnd moves the cursor to the end of its line.
func (d *Document) MoveEnd() { d.moveBy(func(c int, t []rune) int { return lineEnd(t, c) }) }

// MoveUp moves the cursor to the same column on the previous line, or to
// the end of that line when it is shorter.
func (d *Document) MoveUp() {
	d.moveBy(func(c int, t []rune) int {
		start := lineStart(t, c)
		if start == 0 {
			return 0
		}
		prev := lineStart(t, start-1)
		return min(prev+(c-start), start-1)
	})
}

// MoveDown moves the cursor to the same column on the next line, or to the
// end of that line when it is shorter.
func (d *Document) MoveDown() {
	d.moveBy(func(c int, t []rune) int {
		end := lineEnd(t, c)
		if end == len(t) {
			return len(t)
		}
		next := end + 1
		return min(next+(c-lineStart(t, c)), lineEnd(t, next))
	})
}

// GoTo moves to a 1-based line and column. Lines past the end go to the last
// line. A column below 1, or any column on a clamped line, lands on the
// first non-blank character.
func (d *Document) GoTo(line, column int) {
	d.moveBy(func(_ int, t []rune) int {
		starts := lineStarts(t)
		if line > len(starts) {
			line, column = len(starts), 0
		}
		line = max(line, 1)

		start := starts[line-1]
		end := lineEnd(t, start)
		if column < 1 {
			return firstNonBlank(t, start, end)
		}
		return min(start+column-1, end)
	})
}

// LineCol returns the 1-based line and column of the cursor.
func (d *Document) LineCol() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	line := 1 + strings.Count(string(d.text[:d.cursor]), "\n")
	return line, d.cursor - lineStart(d.text, d.cursor) + 1
}

func (d *Document) moveBy(fn func(cursor int, text []rune) int) {
	d.mu.Lock()
	moved := d.setCursorLocked(fn(d.cursor, d.text), eventbus.MoveNavigate, false)
	d.mu.Unlock()
	d.publish(moved)
}

// setCursorLocked clamps and stores the cursor. It returns the event to
// publish, or nil when nothing changed and force is false.
func (d *Document) setCursorLocked(offset int, reason eventbus.MoveReason, force bool) *eventbus.CursorMovedPayload {
	offset = min(max(offset, 0), len(d.text))
	if offset == d.cursor && !force {
		return nil
	}
	d.cursor = offset
	d.version++
	return &eventbus.CursorMovedPayload{
		DocumentID: d.id,
		Offset:     offset,
		Version:    d.version,
		Reason:     reason,
	}
}

func (d *Document) publish(p *eventbus.CursorMovedPayload) {
	if p == nil {
		return
	}
	d.bus.PublishCursorMoved(*p)
}

func lineStart(text []rune, pos int) int {
	for pos > 0 && text[pos-1] != '\n' {
		pos--
	}
	return pos
}

func lineEnd(text []rune, pos int) int {
	for pos < len(text) && text[pos] != '\n' {
		pos++
	}
	return pos
}

func lineStarts(text []rune) []int {
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func firstNonBlank(text []rune, start, end int) int {
	for start < end && (text[start] == ' ' || text[start] == '\t') {
		start++
	}
	return start
}
