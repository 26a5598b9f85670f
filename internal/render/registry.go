package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule selects a renderer kind for paths matching a doublestar glob.
type Rule struct {
	Pattern string
	Kind    Kind
}

var extensionKinds = map[string]Kind{
	".md":       KindMarkdown,
	".markdown": KindMarkdown,
	".mdown":    KindMarkdown,
	".html":     KindHTML,
	".htm":      KindHTML,
	".xhtml":    KindHTML,
}

// Registry picks and caches renderers by file path.
type Registry struct {
	rules []Rule
	opts  Options

	mu    sync.Mutex
	cache map[Kind]Renderer
}

// NewRegistry creates a registry. Rules are tried in order; the first match
// wins. Paths matching no rule fall back to a choice by file extension.
func NewRegistry(rules []Rule, opts Options) *Registry {
	return &Registry{
		rules: rules,
		opts:  opts,
		cache: make(map[Kind]Renderer),
	}
}

// KindFor returns the renderer kind configured for path.
func (r *Registry) KindFor(path string) Kind {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(slashed)

	for _, rule := range r.rules {
		if matchGlob(rule.Pattern, slashed) || matchGlob(rule.Pattern, base) {
			return rule.Kind
		}
	}

	if kind, ok := extensionKinds[strings.ToLower(filepath.Ext(path))]; ok {
		return kind
	}
	return KindPlain
}

// For returns the renderer for path.
func (r *Registry) For(path string) (Renderer, Kind, error) {
	kind := r.KindFor(path)
	renderer, err := r.Get(kind)
	if err != nil {
		return nil, kind, err
	}
	return renderer, kind, nil
}

// Get returns the cached renderer for kind, creating it on first use.
func (r *Registry) Get(kind Kind) (Renderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if renderer, ok := r.cache[kind]; ok {
		return renderer, nil
	}

	renderer, err := New(kind, r.opts)
	if err != nil {
		return nil, fmt.Errorf("renderer for %s: %w", kind, err)
	}
	r.cache[kind] = renderer
	return renderer, nil
}

// ValidatePattern reports an error for a malformed glob.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern is empty")
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid glob %q", pattern)
	}
	return nil
}

func matchGlob(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, path)
	return err == nil && ok
}
