package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the preview key bindings. Typed characters that match no
// binding are inserted into the document.
type KeyMap struct {
	Quit          key.Binding
	Save          key.Binding
	TogglePreview key.Binding
	SyncNow       key.Binding
	PageUp        key.Binding
	PageDown      key.Binding

	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Home      key.Binding
	End       key.Binding
	Newline   key.Binding
	Backspace key.Binding
	Delete    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:          key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		TogglePreview: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "preview")),
		SyncNow:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "sync")),
		PageUp:        key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll preview")),
		PageDown:      key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll preview")),

		Left:      key.NewBinding(key.WithKeys("left")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Up:        key.NewBinding(key.WithKeys("up")),
		Down:      key.NewBinding(key.WithKeys("down")),
		Home:      key.NewBinding(key.WithKeys("home", "ctrl+a")),
		End:       key.NewBinding(key.WithKeys("end", "ctrl+e")),
		Newline:   key.NewBinding(key.WithKeys("enter")),
		Backspace: key.NewBinding(key.WithKeys("backspace")),
		Delete:    key.NewBinding(key.WithKeys("delete")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.TogglePreview, k.SyncNow, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.TogglePreview, k.SyncNow, k.Quit},
		{k.PageUp, k.PageDown},
	}
}
