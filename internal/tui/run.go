package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/docsync/internal/core/eventbus"
)

// Run shows the preview until the user quits or ctx is cancelled.
func Run(ctx context.Context, deps Deps) error {
	m := New(deps)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	Bridge(m.deps, p.Send)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run preview: %w", err)
	}
	return nil
}

// Bridge forwards bus events the preview displays to send, which is
// normally tea.Program.Send. Notifications are also recorded in the log.
func Bridge(deps Deps, send func(tea.Msg)) {
	id := deps.Document.ID()

	deps.Preview.OnSelect(func(offset int) {
		send(selectionMsg{offset: offset})
	})

	deps.Bus.SubscribeCursorMoved(func(p eventbus.CursorMovedPayload) {
		if p.DocumentID == id && p.Reason == eventbus.MoveSync {
			send(cursorSyncedMsg{})
		}
	})
	deps.Bus.SubscribeSyncApplied(func(p eventbus.SyncAppliedPayload) {
		if p.DocumentID == id {
			send(syncAppliedMsg(p))
		}
	})
	deps.Bus.SubscribeSyncSkipped(func(p eventbus.SyncSkippedPayload) {
		if p.DocumentID == id {
			send(syncSkippedMsg(p))
		}
	})
	deps.Bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
		n := deps.Notifications.Add(p.Level, p.Message)
		send(notificationMsg(n))
	})
}
