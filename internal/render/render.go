// Package render turns document source into the plain text shown in the
// preview pane. Every renderer returns text without terminal escapes so that
// offsets into it are plain code point offsets.
package render

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour/styles"
)

// Kind names a renderer.
type Kind string

const (
	KindPlain        Kind = "plain"
	KindMarkdown     Kind = "markdown"
	KindMarkdownHTML Kind = "markdown-html"
	KindHTML         Kind = "html"
)

// Kinds lists every supported renderer kind.
func Kinds() []Kind {
	return []Kind{KindPlain, KindMarkdown, KindMarkdownHTML, KindHTML}
}

// IsValid reports whether k is a supported renderer kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindPlain, KindMarkdown, KindMarkdownHTML, KindHTML:
		return true
	default:
		return false
	}
}

// Renderer converts source text into rendered plain text.
type Renderer interface {
	Render(src string) (string, error)
}

// Options configures renderers that lay out text.
type Options struct {
	Width int
	Style string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Width: 80, Style: "notty"}
}

// ErrUnknownKind is returned by New for an unsupported kind.
var ErrUnknownKind = errors.New("unknown renderer kind")

// New constructs the renderer for kind.
func New(kind Kind, opts Options) (Renderer, error) {
	switch kind {
	case KindPlain:
		return Plain{}, nil
	case KindMarkdown:
		return NewMarkdown(opts)
	case KindMarkdownHTML:
		return NewMarkdownHTML(), nil
	case KindHTML:
		return HTML{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// ValidateStyle checks that style names a built-in glamour style or an
// existing style file. An empty style is allowed.
func ValidateStyle(style string) error {
	if style == "" || style == "auto" {
		return nil
	}
	if _, ok := styles.DefaultStyles[style]; ok {
		return nil
	}
	info, err := os.Stat(style)
	if err != nil {
		return fmt.Errorf("unknown style %q: not a built-in style or readable file", style)
	}
	if info.IsDir() {
		return fmt.Errorf("style %q is a directory", style)
	}
	return nil
}

// Plain renders text unchanged.
type Plain struct{}

// Render returns src.
func (Plain) Render(src string) (string, error) {
	return src, nil
}

// trimLines drops trailing blanks from every line and surrounding blank lines.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
