package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders markdown the way a terminal shows it, with escape
// sequences removed.
type Markdown struct {
	mu sync.Mutex
	r  *glamour.TermRenderer
}

// NewMarkdown creates a glamour backed markdown renderer.
func NewMarkdown(opts Options) (*Markdown, error) {
	defaults := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = defaults.Width
	}
	if opts.Style == "" {
		opts.Style = defaults.Style
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return &Markdown{r: r}, nil
}

// Render renders src and strips ANSI sequences and line padding.
func (m *Markdown) Render(src string) (string, error) {
	m.mu.Lock()
	out, err := m.r.Render(src)
	m.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return trimLines(ansi.Strip(out)), nil
}

// MarkdownHTML converts markdown to HTML and extracts its text, giving a
// browser-like rendering without terminal decoration.
type MarkdownHTML struct {
	md goldmark.Markdown
}

// NewMarkdownHTML creates a goldmark backed renderer with GitHub flavored
// extensions enabled.
func NewMarkdownHTML() *MarkdownHTML {
	return &MarkdownHTML{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render converts src to HTML, then to text.
func (m *MarkdownHTML) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return HTML{}.Render(buf.String())
}
