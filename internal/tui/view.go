package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/docsync/internal/core/notify"
	"github.com/colonyops/docsync/internal/core/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	l := m.layout()
	panes := []string{m.sourcePane(l)}
	if l.preview {
		panes = append(panes, m.previewPane(l))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar(l))
}

func (m Model) sourcePane(l layout) string {
	doc := m.deps.Document
	width, rows := l.leftInner(), l.rows()

	lines := splitLines(doc.Text())
	line, col := doc.LineCol()
	line--
	col--

	out := make([]string, 0, rows+1)
	out = append(out, m.title(sourceTitle(doc.Path(), doc.ID(), doc.Modified()), width))
	for i := m.top; i < m.top+rows; i++ {
		if i >= len(lines) {
			out = append(out, "")
			continue
		}
		if i == line {
			out = append(out, ansi.Truncate(mark(lines[i], col, styles.CursorStyle), width, ""))
			continue
		}
		out = append(out, ansi.Truncate(displayRunes(lines[i]), width, ""))
	}

	return styles.PaneFocusedStyle.Width(width).Height(rows + 1).Render(strings.Join(out, "\n"))
}

func (m Model) previewPane(l layout) string {
	width, rows := l.rightInner(), l.rows()

	title := "Preview"
	if text, err := m.deps.Preview.Text(); err != nil && text == "" {
		title = "Preview (render failed)"
	}

	content := m.title(title, width)
	if rows > 0 {
		content += "\n" + m.viewport.View()
	}
	return styles.PaneStyle.Width(width).Height(rows + 1).Render(content)
}

func (m Model) title(text string, width int) string {
	return styles.PaneTitleStyle.Render(ansi.Truncate(text, width, "…"))
}

func sourceTitle(path, id string, modified bool) string {
	name := filepath.Base(path)
	if path == "" {
		name = id
	}
	title := styles.FileIcon(name) + name
	if modified {
		title += " [+]"
	}
	return title
}

func (m Model) statusBar(l layout) string {
	line, col := m.deps.Document.LineCol()
	left := lipgloss.NewStyle().Bold(true).Render(ansi.Truncate(
		sourceTitle(m.deps.Document.Path(), m.deps.Document.ID(), m.deps.Document.Modified()), l.width/2, "…",
	)) + styles.MutedStyle.Render(fmt.Sprintf(" %d:%d", line, col))

	right := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.status.text != "" {
		right = statusStyle(m.status.level).Render(m.status.text)
	}

	inner := max(0, l.width-2)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	bar := left
	if gap > 0 {
		bar += strings.Repeat(" ", gap) + right
	} else {
		bar = ansi.Truncate(left+" "+right, inner, "…")
	}
	return styles.StatusBarStyle.Width(l.width).Render(bar)
}

func statusStyle(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelError:
		return styles.ErrorStyle
	case notify.LevelWarning:
		return styles.WarningStyle
	default:
		return styles.InfoStyle
	}
}

// previewContent renders the preview lines with the selected code point
// marked. Lines are cut to width so screen cells map straight back to text.
func previewContent(lines [][]rune, selected, width int) string {
	selLine, selCol := -1, 0
	if selected >= 0 {
		selLine, selCol = locate(lines, selected)
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if i == selLine {
			out[i] = ansi.Truncate(mark(line, selCol, styles.SyncMarkStyle), width, "")
			continue
		}
		out[i] = ansi.Truncate(displayRunes(line), width, "")
	}
	return strings.Join(out, "\n")
}

// mark highlights the code point at col, or a trailing blank when col is at
// the end of the line.
func mark(line []rune, col int, style lipgloss.Style) string {
	col = min(max(col, 0), len(line))
	at := " "
	rest := ""
	if col < len(line) {
		at = displayRunes(line[col : col+1])
		rest = displayRunes(line[col+1:])
	}
	return displayRunes(line[:col]) + style.Render(at) + rest
}
