// Package tui is the interactive two-pane preview: the source document on the
// left and its rendered text on the right, kept in sync by the coordinator.
package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/docsync/internal/coordinator"
	"github.com/colonyops/docsync/internal/core/approx"
	"github.com/colonyops/docsync/internal/core/config"
	"github.com/colonyops/docsync/internal/core/document"
	"github.com/colonyops/docsync/internal/core/eventbus"
	"github.com/colonyops/docsync/internal/core/logging"
	"github.com/colonyops/docsync/internal/core/notify"
	"github.com/colonyops/docsync/internal/core/styles"
	"github.com/colonyops/docsync/internal/render"
)

// renderDelay batches keystrokes before re-rendering.
const renderDelay = 50 * time.Millisecond

// Deps are the collaborators the preview drives.
type Deps struct {
	Config        *config.Config
	ConfigPath    string
	Bus           *eventbus.EventBus
	Document      *document.Document
	Preview       *Preview
	Registry      *render.Registry
	Coordinator   *coordinator.Coordinator
	Notifications *notify.Log
	// Watcher is optional. Without it external changes are not picked up.
	Watcher *FileWatcher
}

type (
	renderRequestMsg struct{ seq uint64 }
	renderedMsg      struct {
		seq  uint64
		text string
		err  error
	}
	selectionMsg    struct{ offset int }
	cursorSyncedMsg struct{}
	syncAppliedMsg  eventbus.SyncAppliedPayload
	syncSkippedMsg  eventbus.SyncSkippedPayload
	notificationMsg notify.Notification
)

// status is the right side of the status bar.
type status struct {
	text  string
	level notify.Level
}

// Model is the bubbletea model for the preview.
type Model struct {
	deps     Deps
	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	log      zerolog.Logger

	width  int
	height int
	top    int

	renderSeq uint64
	shownSel  int
	status    status
}

// New creates the model. Call Init through a tea.Program to start rendering.
func New(deps Deps) Model {
	if deps.Notifications == nil {
		deps.Notifications = notify.NewLog(notify.DefaultLimit)
	}
	if deps.Preview == nil {
		deps.Preview = NewPreview()
	}

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true

	return Model{
		deps:     deps,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: vp,
		log:      logging.ForDocument("tui", deps.Document.ID()),
		shownSel: -1,
	}
}

// Init starts the first render and the file watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.renderNow(m.renderSeq)}
	if m.deps.Watcher != nil {
		cmds = append(cmds, m.deps.Watcher.Start())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	case renderRequestMsg:
		if msg.seq == m.renderSeq {
			cmd = m.renderNow(msg.seq)
		}
	case renderedMsg:
		if msg.seq == m.renderSeq {
			m.deps.Preview.SetText(msg.text, msg.err)
			if msg.err != nil {
				m.status = status{text: "render failed: " + msg.err.Error(), level: notify.LevelError}
			}
		}
	case selectionMsg, cursorSyncedMsg:
		// state lives in Preview and Document; redraw only
	case syncAppliedMsg:
		m.status = status{
			text:  fmt.Sprintf("%s %s %d -> %d (%s)", styles.IconSync, msg.Direction, msg.From, msg.To, msg.Took.Round(time.Microsecond)),
			level: notify.LevelInfo,
		}
	case syncSkippedMsg:
		if s, ok := skipStatus(eventbus.SyncSkippedPayload(msg)); ok {
			m.status = s
		}
	case notificationMsg:
		m.status = status{text: msg.Message, level: msg.Level}
	case filesChangedMsg:
		cmd = m.handleFilesChanged(msg)
	}

	m.scrollSource()
	m.refreshPreview()
	return m, cmd
}

func skipStatus(p eventbus.SyncSkippedPayload) (status, bool) {
	switch p.Reason {
	case eventbus.SkipNotFound:
		return status{text: "no unambiguous match", level: notify.LevelWarning}, true
	case eventbus.SkipHidden:
		return status{text: "preview hidden", level: notify.LevelInfo}, true
	case eventbus.SkipError:
		return status{text: "sync failed: " + p.Detail, level: notify.LevelError}, true
	}
	return status{}, false
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	doc := m.deps.Document

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Save):
		if err := doc.Save(); err != nil {
			m.notify(notify.LevelError, "save: "+err.Error())
		}
		return nil
	case key.Matches(msg, m.keys.TogglePreview):
		m.deps.Preview.SetVisible(!m.deps.Preview.Visible())
		return nil
	case key.Matches(msg, m.keys.SyncNow):
		if m.deps.Coordinator != nil {
			m.deps.Coordinator.SyncNow()
		}
		return nil
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	case key.Matches(msg, m.keys.Left):
		doc.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		doc.MoveRight()
	case key.Matches(msg, m.keys.Up):
		doc.MoveUp()
	case key.Matches(msg, m.keys.Down):
		doc.MoveDown()
	case key.Matches(msg, m.keys.Home):
		doc.MoveHome()
	case key.Matches(msg, m.keys.End):
		doc.MoveEnd()
	case key.Matches(msg, m.keys.Newline):
		doc.Insert("\n")
		return m.scheduleRender()
	case key.Matches(msg, m.keys.Backspace):
		doc.Backspace()
		return m.scheduleRender()
	case key.Matches(msg, m.keys.Delete):
		doc.Delete()
		return m.scheduleRender()
	case msg.Type == tea.KeySpace:
		doc.Insert(" ")
		return m.scheduleRender()
	case msg.Type == tea.KeyRunes && !msg.Alt:
		doc.Insert(string(msg.Runes))
		return m.scheduleRender()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	l := m.layout()

	if tea.MouseEvent(msg).IsWheel() {
		if _, _, ok := l.hitRight(msg.X, msg.Y); ok {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return cmd
		}
		return nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	if row, col, ok := l.hitRight(msg.X, msg.Y); ok {
		text, _ := m.deps.Preview.Text()
		lines := splitLines(text)
		line := m.viewport.YOffset + row
		if line >= len(lines) {
			return nil
		}
		offset := offsetOf(lines, line, runeAtCell(lines[line], col))
		m.deps.Bus.PublishContentClicked(eventbus.ContentClickedPayload{
			DocumentID: m.deps.Document.ID(),
			Offset:     offset,
		})
		return nil
	}

	if row, col, ok := l.hitLeft(msg.X, msg.Y); ok {
		lines := splitLines(m.deps.Document.Text())
		line := m.top + row
		if line >= len(lines) {
			line = len(lines) - 1
			col = len(lines[line])
		} else {
			col = runeAtCell(lines[line], col)
		}
		m.deps.Document.MoveTo(offsetOf(lines, line, col), eventbus.MoveNavigate)
	}
	return nil
}

func (m *Model) handleFilesChanged(msg filesChangedMsg) tea.Cmd {
	var cmds []tea.Cmd
	if m.deps.Watcher != nil {
		cmds = append(cmds, m.deps.Watcher.Start())
	}

	for _, path := range msg.paths {
		switch {
		case samePath(path, m.deps.Document.Path()):
			err := m.deps.Document.Reload()
			switch {
			case errors.Is(err, document.ErrUnsavedChanges):
				m.notify(notify.LevelWarning, filepath.Base(path)+" changed on disk; keeping local edits")
			case err != nil:
				m.notify(notify.LevelError, "reload: "+err.Error())
			default:
				cmds = append(cmds, m.scheduleRender())
			}
		case samePath(path, m.deps.ConfigPath):
			if cmd := m.reloadConfig(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return tea.Batch(cmds...)
}

// reloadConfig applies a changed config file. An invalid file is reported
// and the running config kept.
func (m *Model) reloadConfig() tea.Cmd {
	cfg, err := config.Load(m.deps.ConfigPath)
	if err != nil {
		m.log.Warn().Err(err).Msg("config reload failed")
		m.notify(notify.LevelError, err.Error())
		return nil
	}
	if err := m.applyConfig(cfg); err != nil {
		m.notify(notify.LevelError, err.Error())
		return nil
	}
	m.deps.Bus.PublishConfigReloaded(eventbus.ConfigReloadedPayload{Config: cfg})
	return m.scheduleRender()
}

func (m *Model) applyConfig(cfg *config.Config) error {
	mapperOpts, err := cfg.MapperOptions()
	if err != nil {
		return fmt.Errorf("apply config: %w", err)
	}

	m.deps.Config = cfg
	styles.UseTheme(cfg.Preview.Theme)
	m.deps.Registry = render.NewRegistry(cfg.RenderRules(), cfg.RenderOptions())
	if c := m.deps.Coordinator; c != nil {
		c.SetOptions(CoordinatorOptions(cfg, m.deps.Document.ID()))
		c.SetMapper(approx.NewMapper(mapperOpts))
	}
	return nil
}

// CoordinatorOptions derives coordinator options from the config.
func CoordinatorOptions(cfg *config.Config, documentID string) coordinator.Options {
	return coordinator.Options{
		DocumentID:   documentID,
		Debounce:     cfg.Sync.Debounce,
		FollowCursor: cfg.Preview.FollowCursor,
		SyncOnClick:  cfg.Preview.SyncOnClick,
	}
}

func (m *Model) notify(level notify.Level, message string) {
	m.status = status{text: message, level: level}
	m.deps.Bus.PublishNotificationPublished(eventbus.NotificationPublishedPayload{Level: level, Message: message})
}

// scheduleRender starts a new render generation after a short delay. Earlier
// pending renders are superseded.
func (m *Model) scheduleRender() tea.Cmd {
	m.renderSeq++
	seq := m.renderSeq
	return tea.Tick(renderDelay, func(time.Time) tea.Msg {
		return renderRequestMsg{seq: seq}
	})
}

func (m Model) renderNow(seq uint64) tea.Cmd {
	src := m.deps.Document.Text()
	path := m.deps.Document.Path()
	if path == "" {
		path = m.deps.Document.ID()
	}
	registry := m.deps.Registry

	return func() tea.Msg {
		r, _, err := registry.For(path)
		if err != nil {
			return renderedMsg{seq: seq, err: err}
		}
		text, err := r.Render(src)
		return renderedMsg{seq: seq, text: text, err: err}
	}
}

func (m Model) layout() layout {
	return newLayout(m.width, m.height, m.deps.Preview.Visible())
}

// scrollSource keeps the cursor line inside the source pane.
func (m *Model) scrollSource() {
	rows := m.layout().rows()
	if rows == 0 {
		return
	}
	line, _ := m.deps.Document.LineCol()
	line--
	if line < m.top {
		m.top = line
	}
	if line >= m.top+rows {
		m.top = line - rows + 1
	}
}

// refreshPreview sizes the viewport, redraws its content, and scrolls to a
// new selection.
func (m *Model) refreshPreview() {
	l := m.layout()
	m.viewport.Width = l.rightInner()
	m.viewport.Height = l.rows()

	text, _ := m.deps.Preview.Text()
	lines := splitLines(text)
	sel := m.deps.Preview.Selected()
	m.viewport.SetContent(previewContent(lines, sel, m.viewport.Width))

	if sel == m.shownSel || sel < 0 {
		return
	}
	m.shownSel = sel
	line, _ := locate(lines, sel)
	if line < m.viewport.YOffset || line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(max(0, line-m.viewport.Height/3))
	}
}
