// Package coordinator keeps a text editor and its rendered view pointing at
// the same place. Cursor moves in the editor scroll the view after a quiet
// period; clicks in the view move the editor cursor immediately.
package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/colonyops/docsync/internal/core/approx"
	"github.com/colonyops/docsync/internal/core/eventbus"
	"github.com/colonyops/docsync/internal/core/logging"
	"github.com/rs/zerolog"
)

// Editor is the source text side.
type Editor interface {
	Text() string
	MoveCursor(offset int)
}

// View is the rendered side. Text may fail when rendering fails.
type View interface {
	Text() (string, error)
	Visible() bool
	Select(offset int)
}

// Mapper maps an offset in one text to the corresponding offset in another.
// *approx.Mapper satisfies it.
type Mapper interface {
	FindPosition(anchor int, searchText, targetText string) int
}

// Options controls which directions sync and how cursor moves are batched.
type Options struct {
	// DocumentID filters events to one document. Empty accepts all.
	DocumentID   string
	Debounce     time.Duration
	FollowCursor bool
	SyncOnClick  bool
}

// Coordinator wires bus events to position syncs between an Editor and a View.
type Coordinator struct {
	bus      *eventbus.EventBus
	editor   Editor
	view     View
	mapper   Mapper
	opts     Options
	log      zerolog.Logger
	debounce *Debouncer[eventbus.CursorMovedPayload]
	now      func() time.Time

	mu     sync.Mutex
	latest uint64
	closed bool

	syncMu   sync.Mutex
	attempts atomic.Uint64
}

// New creates a Coordinator. Call Register to start following events.
func New(bus *eventbus.EventBus, editor Editor, view View, mapper Mapper, opts Options) *Coordinator {
	c := &Coordinator{
		bus:    bus,
		editor: editor,
		view:   view,
		mapper: mapper,
		opts:   opts,
		log:    logging.Component("coordinator"),
		now:    time.Now,
	}
	c.debounce = NewDebouncer(opts.Debounce, c.flush)
	return c
}

// Register subscribes to cursor.moved and content.clicked.
func (c *Coordinator) Register() {
	c.bus.SubscribeCursorMoved(c.onCursorMoved)
	c.bus.SubscribeContentClicked(c.onContentClicked)
}

// SetOptions replaces the options, e.g. after a config reload. A waiting
// cursor move is rescheduled with the new delay, or dropped when the cursor
// is no longer followed.
func (c *Coordinator) SetOptions(opts Options) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if opts.Debounce != c.opts.Debounce || !opts.FollowCursor {
		p, ok := c.debounce.Take()
		if opts.Debounce != c.opts.Debounce {
			c.debounce = NewDebouncer(opts.Debounce, c.flush)
		}
		if ok && opts.FollowCursor {
			c.debounce.Push(p)
		}
	}
	c.opts = opts
}

// SetMapper swaps the position mapper. In-flight syncs finish with the old one.
func (c *Coordinator) SetMapper(m Mapper) {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()
	c.mapper = m
}

// SyncNow runs a pending cursor sync immediately.
func (c *Coordinator) SyncNow() {
	c.mu.Lock()
	d := c.debounce
	c.mu.Unlock()
	d.Flush()
}

// Close cancels pending work. Events arriving later are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	d := c.debounce
	c.mu.Unlock()
	d.Cancel()
}

func (c *Coordinator) accepts(documentID string) bool {
	return !c.closed && (c.opts.DocumentID == "" || c.opts.DocumentID == documentID)
}

func (c *Coordinator) onCursorMoved(p eventbus.CursorMovedPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.accepts(p.DocumentID) {
		return
	}
	c.latest = max(c.latest, p.Version)

	if p.Reason == eventbus.MoveSync || !c.opts.FollowCursor {
		return
	}
	c.debounce.Push(p)
}

func (c *Coordinator) onContentClicked(p eventbus.ContentClickedPayload) {
	c.mu.Lock()
	if !c.accepts(p.DocumentID) || !c.opts.SyncOnClick {
		c.mu.Unlock()
		return
	}
	d := c.debounce
	c.mu.Unlock()

	d.Cancel()
	c.syncViewToText(p)
}

func (c *Coordinator) flush(p eventbus.CursorMovedPayload) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return
	}
	c.syncTextToView(p)
}

func (c *Coordinator) isStale(version uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return version < c.latest
}

func (c *Coordinator) syncTextToView(p eventbus.CursorMovedPayload) {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	ctx := logging.WithSync(context.Background(), p.DocumentID, string(eventbus.SyncTextToView), c.attempts.Add(1))
	skip := func(reason eventbus.SkipReason, detail string) {
		c.log.Debug().Ctx(ctx).Int("from", p.Offset).Str("reason", string(reason)).Msg("sync skipped")
		c.bus.PublishSyncSkipped(eventbus.SyncSkippedPayload{
			DocumentID: p.DocumentID,
			Direction:  eventbus.SyncTextToView,
			From:       p.Offset,
			Reason:     reason,
			Detail:     detail,
		})
	}

	if !c.view.Visible() {
		skip(eventbus.SkipHidden, "")
		return
	}

	start := c.now()
	rendered, err := c.view.Text()
	if err != nil {
		skip(eventbus.SkipError, err.Error())
		return
	}

	to := c.mapper.FindPosition(p.Offset, c.editor.Text(), rendered)
	if c.isStale(p.Version) {
		skip(eventbus.SkipStale, "")
		return
	}
	if to == approx.NotFound {
		skip(eventbus.SkipNotFound, "")
		return
	}

	c.view.Select(to)
	took := c.now().Sub(start)
	c.log.Debug().Ctx(ctx).Int("from", p.Offset).Int("to", to).Dur("took", took).Msg("sync applied")
	c.bus.PublishSyncApplied(eventbus.SyncAppliedPayload{
		DocumentID: p.DocumentID,
		Direction:  eventbus.SyncTextToView,
		From:       p.Offset,
		To:         to,
		Took:       took,
	})
}

func (c *Coordinator) syncViewToText(p eventbus.ContentClickedPayload) {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	ctx := logging.WithSync(context.Background(), p.DocumentID, string(eventbus.SyncViewToText), c.attempts.Add(1))
	skip := func(reason eventbus.SkipReason, detail string) {
		c.log.Debug().Ctx(ctx).Int("from", p.Offset).Str("reason", string(reason)).Msg("sync skipped")
		c.bus.PublishSyncSkipped(eventbus.SyncSkippedPayload{
			DocumentID: p.DocumentID,
			Direction:  eventbus.SyncViewToText,
			From:       p.Offset,
			Reason:     reason,
			Detail:     detail,
		})
	}

	start := c.now()
	rendered, err := c.view.Text()
	if err != nil {
		skip(eventbus.SkipError, err.Error())
		return
	}

	to := c.mapper.FindPosition(p.Offset, rendered, c.editor.Text())
	if to == approx.NotFound {
		skip(eventbus.SkipNotFound, "")
		return
	}

	c.editor.MoveCursor(to)
	took := c.now().Sub(start)
	c.log.Debug().Ctx(ctx).Int("from", p.Offset).Int("to", to).Dur("took", took).Msg("sync applied")
	c.bus.PublishSyncApplied(eventbus.SyncAppliedPayload{
		DocumentID: p.DocumentID,
		Direction:  eventbus.SyncViewToText,
		From:       p.Offset,
		To:         to,
		Took:       took,
	})
}
