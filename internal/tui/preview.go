package tui

import "sync"

// Preview holds the rendered text shown in the right pane. It is the
// coordinator's View and is read from coordinator goroutines, so every field
// is guarded.
type Preview struct {
	mu       sync.Mutex
	text     string
	err      error
	visible  bool
	selected int
	onSelect func(offset int)
}

// NewPreview returns a visible, empty preview with no selection.
func NewPreview() *Preview {
	return &Preview{visible: true, selected: -1}
}

// Text returns the last rendered text, or the error the last render failed with.
func (p *Preview) Text() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text, p.err
}

// Visible reports whether the pane is shown.
func (p *Preview) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Select marks offset as the synced position and notifies the listener.
func (p *Preview) Select(offset int) {
	p.mu.Lock()
	p.selected = offset
	fn := p.onSelect
	p.mu.Unlock()

	if fn != nil {
		fn(offset)
	}
}

// Selected returns the synced offset, or -1 before the first sync.
func (p *Preview) Selected() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// SetText stores a render result. A failed render keeps the previous text on
// screen but makes Text report the error. A selection past the new end is
// clamped.
func (p *Preview) SetText(text string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.err = err
	if err != nil {
		return
	}
	p.text = text
	if n := len([]rune(text)); p.selected > n {
		p.selected = n
	}
}

// SetVisible shows or hides the pane.
func (p *Preview) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = visible
}

// OnSelect registers the function called after every Select.
func (p *Preview) OnSelect(fn func(offset int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSelect = fn
}
