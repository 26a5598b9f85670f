package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThemeNames_Sorted(t *testing.T) {
	names := ThemeNames()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestUseTheme(t *testing.T) {
	t.Cleanup(func() { UseTheme(DefaultTheme) })

	assert.True(t, UseTheme("gruvbox"))
	assert.Equal(t, themes["gruvbox"], CurrentPalette)

	assert.False(t, UseTheme("no-such-theme"))
	assert.Equal(t, themes["gruvbox"], CurrentPalette, "unknown theme keeps the current one")
}

func TestIsTheme(t *testing.T) {
	assert.True(t, IsTheme("tokyo-night"))
	assert.False(t, IsTheme("solarized"))
}

func TestFileIcon(t *testing.T) {
	assert.Equal(t, IconFileMarkdown, FileIcon("README.md"))
	assert.Equal(t, IconFileHTML, FileIcon("index.html"))
	assert.Equal(t, IconFileDefault, FileIcon("main.go"))
}
