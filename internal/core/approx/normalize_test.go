package approx

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeComment(t *testing.T) {
	tests := []struct {
		name       string
		anchor     int
		text       string
		wantAnchor int
		wantText   string
	}{
		{name: "python comment", anchor: 4, text: "# test", wantAnchor: 2, wantText: "test"},
		{name: "c++ comment", anchor: 5, text: "// test", wantAnchor: 2, wantText: "test"},
		{name: "anchor inside marker", anchor: 1, text: "# test", wantAnchor: 0, wantText: "test"},
		{name: "no marker", anchor: 2, text: "test", wantAnchor: 2, wantText: "test"},
		{name: "every line", anchor: 6, text: "# test\n# test", wantAnchor: 4, wantText: "test\ntest"},
		{name: "anchor after later markers", anchor: 10, text: "# a\n# b\n# c", wantAnchor: 4, wantText: "a\nb\nc"},
		{name: "indentation kept", anchor: 3, text: "  # x", wantAnchor: 2, wantText: "  x"},
		{name: "rst comment", anchor: 5, text: ".. note", wantAnchor: 2, wantText: "note"},
		{name: "marker alone on a line", anchor: 3, text: "...", wantAnchor: 0, wantText: ""},
		{name: "punctuation glued to a word", anchor: 0, text: "#include <x>", wantAnchor: 0, wantText: "#include <x>"},
		{name: "parenthesis is not a marker", anchor: 2, text: "(note) text", wantAnchor: 2, wantText: "(note) text"},
		{name: "run longer than a marker", anchor: 0, text: "===== x", wantAnchor: 0, wantText: "===== x"},
		{name: "non-ascii punctuation ignored", anchor: 2, text: "• item", wantAnchor: 2, wantText: "• item"},
		{name: "empty", anchor: 0, text: "", wantAnchor: 0, wantText: ""},
		{name: "trailing newline", anchor: 7, text: "# test\n", wantAnchor: 5, wantText: "test\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotAnchor, gotText := NormalizeComment(tt.anchor, tt.text)
			assert.Equal(t, tt.wantAnchor, gotAnchor)
			assert.Equal(t, tt.wantText, gotText)
		})
	}
}

func TestNormalizeComment_CustomPattern(t *testing.T) {
	pattern := regexp.MustCompile(`REM\s+`)

	anchor, text := normalizeRunes(6, []rune("REM hello\n  REM world"), pattern)
	assert.Equal(t, 2, anchor)
	assert.Equal(t, "hello\n  world", string(text))

	anchor, text = normalizeRunes(2, []rune("# hello"), pattern)
	assert.Equal(t, 2, anchor, "built-in markers are not used with a custom pattern")
	assert.Equal(t, "# hello", string(text))
}

func TestNormalizeComment_NeverPanics(t *testing.T) {
	inputs := []string{"#", "\n\n", "# \n#", "\t//\t", "😀 # x", "#\x00"}
	for _, in := range inputs {
		for anchor := 0; anchor <= len([]rune(in)); anchor++ {
			assert.NotPanics(t, func() { NormalizeComment(anchor, in) })
		}
	}
}
