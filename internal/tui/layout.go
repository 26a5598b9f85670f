package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Pane chrome: one border row, then a title row, then content.
const (
	contentTop   = 2
	paneChromeV  = 3
	paneChromeH  = 2
	statusHeight = 1
)

// layout computes pane geometry for a window size. The source pane takes
// the whole width while the preview is hidden.
type layout struct {
	width      int
	height     int
	leftWidth  int
	rightWidth int
	preview    bool
}

func newLayout(width, height int, preview bool) layout {
	l := layout{width: width, height: height, preview: preview, leftWidth: width}
	if preview {
		l.leftWidth = width / 2
		l.rightWidth = width - l.leftWidth
	}
	return l
}

func (l layout) bodyHeight() int { return max(0, l.height-statusHeight) }

// rows is the number of content rows inside a pane.
func (l layout) rows() int { return max(0, l.bodyHeight()-paneChromeV) }

func (l layout) leftInner() int  { return max(0, l.leftWidth-paneChromeH) }
func (l layout) rightInner() int { return max(0, l.rightWidth-paneChromeH) }

// hitLeft maps a screen cell to a content row and cell column in the source pane.
func (l layout) hitLeft(x, y int) (row, col int, ok bool) {
	return hit(x, y, 1, l.leftInner(), l.rows())
}

// hitRight maps a screen cell to a content row and cell column in the preview pane.
func (l layout) hitRight(x, y int) (row, col int, ok bool) {
	if !l.preview {
		return 0, 0, false
	}
	return hit(x, y, l.leftWidth+1, l.rightInner(), l.rows())
}

func hit(x, y, left, width, rows int) (int, int, bool) {
	row, col := y-contentTop, x-left
	if row < 0 || row >= rows || col < 0 || col >= width {
		return 0, 0, false
	}
	return row, col, true
}

// splitLines splits text into rune lines. The result always has at least one line.
func splitLines(text string) [][]rune {
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

// locate returns the line and column of a code point offset.
func locate(lines [][]rune, offset int) (int, int) {
	for i, line := range lines {
		if offset <= len(line) {
			return i, max(offset, 0)
		}
		offset -= len(line) + 1
	}
	last := len(lines) - 1
	return last, len(lines[last])
}

// offsetOf is the inverse of locate. Out of range positions are clamped.
func offsetOf(lines [][]rune, line, col int) int {
	line = min(max(line, 0), len(lines)-1)
	offset := 0
	for i := range line {
		offset += len(lines[i]) + 1
	}
	return offset + min(max(col, 0), len(lines[line]))
}

// runeAtCell returns the index of the code point drawn at cell column cell.
// Cells past the end of the line map to the line end.
func runeAtCell(line []rune, cell int) int {
	x := 0
	for i, r := range line {
		x += displayWidth(r)
		if x > cell {
			return i
		}
	}
	return len(line)
}

func displayWidth(r rune) int {
	if r == '\t' {
		return 1
	}
	return max(1, ansi.StringWidth(string(r)))
}

// displayRunes replaces characters that would break cell math.
func displayRunes(line []rune) string {
	var b strings.Builder
	for _, r := range line {
		if r == '\t' || r < ' ' {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
