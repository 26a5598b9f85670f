package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/docsync/internal/core/config"
	"github.com/colonyops/docsync/internal/core/document"
	"github.com/colonyops/docsync/internal/core/eventbus"
	"github.com/colonyops/docsync/internal/core/eventbus/testbus"
	"github.com/colonyops/docsync/internal/core/notify"
	"github.com/colonyops/docsync/internal/core/styles"
	"github.com/colonyops/docsync/internal/render"
	"github.com/colonyops/docsync/pkg/tuitest"
)

const testTimeout = time.Second

func testDeps(tb *testbus.Bus, doc *document.Document) Deps {
	return Deps{
		Config:        config.DefaultConfig(),
		Bus:           tb.EventBus,
		Document:      doc,
		Preview:       NewPreview(),
		Registry:      render.NewRegistry(nil, render.DefaultOptions()),
		Notifications: notify.NewLog(10),
	}
}

func newTestModel(t *testing.T, text string) (Model, *testbus.Bus, *document.Document) {
	t.Helper()

	tb := testbus.New(t)
	doc := document.New("note.txt", text, tb.EventBus)
	m := New(testDeps(tb, doc))
	m = update(t, m, tuitest.WindowSize(80, 20))
	return m, tb, doc
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	m, _ = updateCmd(t, m, msgs...)
	return m
}

func updateCmd(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

// rendered runs the current render generation synchronously.
func rendered(t *testing.T, m Model) Model {
	t.Helper()
	return update(t, m, m.renderNow(m.renderSeq)())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestModel_RendersBothPanes(t *testing.T) {
	m, _, _ := newTestModel(t, "hello\nworld")
	m = rendered(t, m)

	text, err := m.deps.Preview.Text()
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", text)

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "note.txt")
	assert.Contains(t, view, "Preview")
	assert.Contains(t, view, "world")
}

func TestModel_EmptyBeforeWindowSize(t *testing.T) {
	tb := testbus.New(t)
	m := New(testDeps(tb, document.New("x", "abc", tb.EventBus)))
	assert.Empty(t, m.View())
}

func TestModel_TypingInsertsAndSchedulesRender(t *testing.T) {
	m, _, doc := newTestModel(t, "hello")

	m, cmd := updateCmd(t, m, tuitest.Type("ab ")...)
	assert.Equal(t, "ab hello", doc.Text())
	assert.Equal(t, 3, doc.Cursor())
	assert.NotNil(t, cmd)
	assert.Equal(t, uint64(3), m.renderSeq)

	m = update(t, m, tuitest.Paste("xy\r\nz"))
	assert.Equal(t, "ab xy\nzhello", doc.Text())
}

func TestModel_EditingKeys(t *testing.T) {
	m, _, doc := newTestModel(t, "abc\ndef")

	m = update(t, m, tuitest.Key(tea.KeyEnd), tuitest.Key(tea.KeyBackspace))
	assert.Equal(t, "ab\ndef", doc.Text())

	m = update(t, m, tuitest.KeyEnter())
	assert.Equal(t, "ab\n\ndef", doc.Text())

	m = update(t, m, tuitest.KeyDown(), tuitest.Key(tea.KeyHome), tuitest.Key(tea.KeyDelete))
	assert.Equal(t, "ab\n\nef", doc.Text())

	update(t, m, tuitest.KeyUp(), tuitest.KeyUp(), tuitest.Key(tea.KeyRight))
	assert.Equal(t, 1, doc.Cursor())
}

func TestModel_AltRunesAreNotInserted(t *testing.T) {
	m, _, doc := newTestModel(t, "")
	update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true})
	assert.Empty(t, doc.Text())
}

func TestModel_StaleRenderIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, "new")
	m = update(t, m, tuitest.KeyPress('!'))

	m = update(t, m, renderedMsg{seq: 0, text: "old"})
	text, _ := m.deps.Preview.Text()
	assert.Empty(t, text)

	m = update(t, m, renderedMsg{seq: m.renderSeq, text: "!new"})
	text, _ = m.deps.Preview.Text()
	assert.Equal(t, "!new", text)
}

func TestModel_RenderRequestOnlyForLatestGeneration(t *testing.T) {
	m, _, _ := newTestModel(t, "a")
	m = update(t, m, tuitest.Type("bc")...)

	_, cmd := updateCmd(t, m, renderRequestMsg{seq: 1})
	assert.Nil(t, cmd)

	_, cmd = updateCmd(t, m, renderRequestMsg{seq: 2})
	require.NotNil(t, cmd)
	msg, ok := cmd().(renderedMsg)
	require.True(t, ok)
	assert.Equal(t, "bca", msg.text)
}

func TestModel_RenderErrorShownInStatus(t *testing.T) {
	m, _, _ := newTestModel(t, "a")
	m = update(t, m, renderedMsg{seq: 0, err: assert.AnError})

	_, err := m.deps.Preview.Text()
	require.Error(t, err)
	assert.Contains(t, tuitest.StripANSI(m.View()), "render failed")
}

func TestModel_TogglePreview(t *testing.T) {
	m, _, _ := newTestModel(t, "hello")

	m = update(t, m, tuitest.Key(tea.KeyTab))
	assert.False(t, m.deps.Preview.Visible())
	assert.NotContains(t, tuitest.StripANSI(m.View()), "Preview")

	m = update(t, m, tuitest.Key(tea.KeyTab))
	assert.True(t, m.deps.Preview.Visible())
}

func TestModel_ClickPreviewPublishesContentClicked(t *testing.T) {
	m, tb, _ := newTestModel(t, "hello\nworld")
	m = rendered(t, m)

	// Left pane is 40 cells wide; preview content starts one cell in.
	update(t, m, tuitest.Click(40+1+2, contentTop+1))

	require.True(t, tb.WaitFor(eventbus.EventContentClicked, testTimeout))
	p := testbus.FindPayload[eventbus.ContentClickedPayload](tb, t, eventbus.EventContentClicked)
	assert.Equal(t, "note.txt", p.DocumentID)
	assert.Equal(t, 8, p.Offset)
}

func TestModel_ClickBelowPreviewTextIgnored(t *testing.T) {
	m, tb, _ := newTestModel(t, "hello")
	m = rendered(t, m)

	update(t, m, tuitest.Click(45, contentTop+5))
	tb.AssertNotPublished(t, eventbus.EventContentClicked, 50*time.Millisecond)
}

func TestModel_ClickSourceMovesCursor(t *testing.T) {
	m, _, doc := newTestModel(t, "hello\nworld")

	m = update(t, m, tuitest.Click(1+3, contentTop+1))
	assert.Equal(t, 9, doc.Cursor())

	update(t, m, tuitest.Click(1+2, contentTop+7))
	assert.Equal(t, 11, doc.Cursor(), "rows past the text land at the end")
}

func TestModel_SourceScrollsToCursor(t *testing.T) {
	text := ""
	for range 40 {
		text += "line\n"
	}
	m, _, doc := newTestModel(t, text)

	doc.GoTo(30, 1)
	m = update(t, m, cursorSyncedMsg{})
	rows := m.layout().rows()
	assert.Equal(t, 29-rows+1, m.top)

	doc.GoTo(2, 1)
	m = update(t, m, cursorSyncedMsg{})
	assert.Equal(t, 1, m.top)
}

func TestModel_SelectionScrollsPreview(t *testing.T) {
	text := ""
	for range 60 {
		text += "row\n"
	}
	m, _, _ := newTestModel(t, text)
	m = rendered(t, m)

	m.deps.Preview.Select(50 * 4)
	m = update(t, m, selectionMsg{offset: 200})

	assert.LessOrEqual(t, m.viewport.YOffset, 50)
	assert.Greater(t, m.viewport.YOffset+m.viewport.Height, 50)
}

func TestModel_SyncStatus(t *testing.T) {
	m, _, _ := newTestModel(t, "hello")

	m = update(t, m, syncSkippedMsg{Reason: eventbus.SkipNotFound})
	assert.Contains(t, tuitest.StripANSI(m.View()), "no unambiguous match")

	m = update(t, m, syncSkippedMsg{Reason: eventbus.SkipStale})
	assert.Contains(t, tuitest.StripANSI(m.View()), "no unambiguous match", "stale results leave the status alone")

	m = update(t, m, syncAppliedMsg{Direction: eventbus.SyncTextToView, From: 3, To: 2})
	assert.Contains(t, tuitest.StripANSI(m.View()), "text-to-view 3 -> 2")
}

func TestModel_HelpShownWithoutStatus(t *testing.T) {
	m, _, _ := newTestModel(t, "hello")
	assert.Contains(t, tuitest.StripANSI(m.View()), "save")
}

func TestModel_SaveWritesFile(t *testing.T) {
	tb := testbus.New(t)
	path := filepath.Join(t.TempDir(), "doc.md")
	writeFile(t, path, "# hi")

	doc, err := document.Open(path, tb.EventBus)
	require.NoError(t, err)
	m := update(t, New(testDeps(tb, doc)), tuitest.WindowSize(80, 20))

	m = update(t, m, tuitest.KeyPress('x'))
	assert.Contains(t, tuitest.StripANSI(m.View()), "doc.md [+]")

	update(t, m, tuitest.Key(tea.KeyCtrlS))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x# hi", string(data))
	assert.False(t, doc.Modified())
	assert.True(t, tb.WaitFor(eventbus.EventDocumentSaved, testTimeout))
}

func TestModel_SaveWithoutPathNotifies(t *testing.T) {
	m, tb, _ := newTestModel(t, "hello")

	m = update(t, m, tuitest.Key(tea.KeyCtrlS))
	assert.Contains(t, tuitest.StripANSI(m.View()), "save:")
	assert.True(t, tb.WaitFor(eventbus.EventNotificationPublished, testTimeout))
}

func TestModel_FilesChangedReloadsDocument(t *testing.T) {
	tb := testbus.New(t)
	path := filepath.Join(t.TempDir(), "doc.txt")
	writeFile(t, path, "before")

	doc, err := document.Open(path, tb.EventBus)
	require.NoError(t, err)
	m := update(t, New(testDeps(tb, doc)), tuitest.WindowSize(80, 20))

	writeFile(t, path, "after")
	m, cmd := updateCmd(t, m, filesChangedMsg{paths: []string{path}})
	assert.Equal(t, "after", doc.Text())
	assert.NotNil(t, cmd)
	assert.Equal(t, uint64(1), m.renderSeq)
}

func TestModel_FilesChangedKeepsLocalEdits(t *testing.T) {
	tb := testbus.New(t)
	path := filepath.Join(t.TempDir(), "doc.txt")
	writeFile(t, path, "before")

	doc, err := document.Open(path, tb.EventBus)
	require.NoError(t, err)
	m := update(t, New(testDeps(tb, doc)), tuitest.WindowSize(80, 20))
	m = update(t, m, tuitest.KeyPress('!'))

	writeFile(t, path, "after")
	m = update(t, m, filesChangedMsg{paths: []string{path}})
	assert.Equal(t, "!before", doc.Text())
	assert.Contains(t, tuitest.StripANSI(m.View()), "keeping local edits")

	require.True(t, tb.WaitFor(eventbus.EventNotificationPublished, testTimeout))
	p := testbus.FindPayload[eventbus.NotificationPublishedPayload](tb, t, eventbus.EventNotificationPublished)
	assert.Equal(t, notify.LevelWarning, p.Level)
}

func TestModel_ConfigReload(t *testing.T) {
	t.Cleanup(func() { styles.UseTheme(styles.DefaultTheme) })

	m, tb, _ := newTestModel(t, "hello")
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "preview:\n  theme: gruvbox\nrender:\n  width: 60\n")
	m.deps.ConfigPath = path

	m, cmd := updateCmd(t, m, filesChangedMsg{paths: []string{path}})
	assert.NotNil(t, cmd)
	assert.Equal(t, "gruvbox", m.deps.Config.Preview.Theme)
	assert.Equal(t, 60, m.deps.Config.Render.Width)

	require.True(t, tb.WaitFor(eventbus.EventConfigReloaded, testTimeout))
}

func TestModel_InvalidConfigKeepsRunningConfig(t *testing.T) {
	m, tb, _ := newTestModel(t, "hello")
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "sync:\n  search_radius: -1\n")
	m.deps.ConfigPath = path
	before := m.deps.Config

	m = update(t, m, filesChangedMsg{paths: []string{path}})
	assert.Same(t, before, m.deps.Config)
	assert.True(t, tb.WaitFor(eventbus.EventNotificationPublished, testTimeout))
	tb.AssertNotPublished(t, eventbus.EventConfigReloaded, 50*time.Millisecond)
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(t, "")
	_, cmd := updateCmd(t, m, tuitest.Key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestCoordinatorOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Preview.SyncOnClick = false

	opts := CoordinatorOptions(cfg, "doc")
	assert.Equal(t, "doc", opts.DocumentID)
	assert.Equal(t, cfg.Sync.Debounce, opts.Debounce)
	assert.True(t, opts.FollowCursor)
	assert.False(t, opts.SyncOnClick)
}
