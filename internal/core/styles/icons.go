package styles

import "path/filepath"

// Tip: To find icons use https://github.com/loichyan/nerdfix

// File type icons
var (
	IconFileDefault  = " " //
	IconFileMarkdown = " " //
	IconFileHTML     = " " //
	IconSync         = "\U000F04E6" // 󰓦
)

// FileIcon returns the icon shown next to a file name.
func FileIcon(path string) string {
	switch filepath.Ext(path) {
	case ".md", ".markdown", ".mdown":
		return IconFileMarkdown
	case ".html", ".htm", ".xhtml":
		return IconFileHTML
	default:
		return IconFileDefault
	}
}
