package approx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlign_CommonSubsequence(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		target  string
		want    string
	}{
		{name: "both empty", pattern: "", target: "", want: ""},
		{name: "empty target", pattern: "abc", target: "", want: ""},
		{name: "empty pattern", pattern: "", target: "abc", want: ""},
		{name: "identical", pattern: "abc", target: "abc", want: "abc"},
		{name: "nothing in common", pattern: "Fox", target: "Bear", want: ""},
		{name: "non-ascii", pattern: "Fußball", target: "Football", want: "Fball"},
		{name: "shared suffix", pattern: "Niederösterreich", target: "Oberösterreich", want: "erösterreich"},
		{name: "shared newline only", pattern: "abc\ndef", target: "gh\nijkl", want: "\n"},
		{
			name:    "markup against rendered line",
			pattern: "# The :doc:`README` user manual gives a broad overview of this system. In contrast, this document discusses the implementation specifics of the CodeChat system.",
			target:  "The CodeChat user manual gives a broad overview of this system. In contrast, this document discusses the implementation specifics of the CodeChat system.",
			want:    "The d user manual gives a broad overview of this system. In contrast, this document discusses the implementation specifics of the CodeChat system.",
		},
		{
			name:    "mostly short fragments",
			pattern: "age = None# `exclude_patterns# <http://sphinx-doc.org/config.html#confval-exclude_patterns>`_: List of# patterns, re",
			target:  "for a list of supported languages.##language = None exclude_patterns: List of patterns, re",
			want:    "a  o upte ngg.lnaexclude_patterns: List of patterns, re",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Align(tt.pattern, tt.target)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAlign_IdentityPairs(t *testing.T) {
	got := Align("abc", "abc")
	assert.Equal(t, Alignment{
		{Search: 0, Target: 0, Char: 'a'},
		{Search: 1, Target: 1, Char: 'b'},
		{Search: 2, Target: 2, Char: 'c'},
	}, got)
}

func TestAlign_CodePointIndices(t *testing.T) {
	got := Align("a😀b", "x😀y")
	assert.Equal(t, Alignment{{Search: 1, Target: 1, Char: '😀'}}, got)

	got = Align("Fußball", "Football")
	assert.Equal(t, []int{0, 3, 4, 5, 6}, searchIndices(got))
	assert.Equal(t, []int{0, 4, 5, 6, 7}, targetIndices(got))
}

func TestAlign_StrictlyIncreasing(t *testing.T) {
	got := Align("the cat sat on the mat", "a cat is on a mat, the end")
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Search, got[i-1].Search)
		assert.Greater(t, got[i].Target, got[i-1].Target)
	}
}

func TestAlign_Deterministic(t *testing.T) {
	first := Align("abcabc", "cbacba")
	for range 5 {
		assert.Equal(t, first, Align("abcabc", "cbacba"))
	}
}

func TestMapAnchor(t *testing.T) {
	al := Align("bqwc?xyzaad", "bwxyzcd")

	tests := []struct {
		name   string
		anchor int
		want   int
	}{
		{name: "on a matched character", anchor: 0, want: 0},
		{name: "unmatched run prefers the pair after", anchor: 9, want: 6},
		{name: "past the last pair", anchor: 11, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mapAnchor(tt.anchor, al)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := mapAnchor(3, Alignment{})
	assert.False(t, ok)
}

func searchIndices(al Alignment) []int {
	out := make([]int, len(al))
	for i, p := range al {
		out[i] = p.Search
	}
	return out
}

func targetIndices(al Alignment) []int {
	out := make([]int, len(al))
	for i, p := range al {
		out[i] = p.Target
	}
	return out
}
