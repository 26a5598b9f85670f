package approx

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// maxMarkerLen bounds the punctuation run recognized as a comment marker.
const maxMarkerLen = 4

// NormalizeComment removes one leading comment marker (such as "#", "//" or
// "..") from every line of text and shifts anchor left by the number of code
// points removed before it. An anchor inside a removed marker lands where the
// marker was. Lines without a recognizable marker are left alone.
func NormalizeComment(anchor int, text string) (int, string) {
	adjusted, out := normalizeRunes(anchor, []rune(text), nil)
	return adjusted, string(out)
}

func normalizeRunes(anchor int, text []rune, pattern *regexp.Regexp) (int, []rune) {
	out := make([]rune, 0, len(text))
	adjusted := anchor

	lineStart := 0
	for {
		lineEnd := lineStart
		for lineEnd < len(text) && text[lineEnd] != '\n' {
			lineEnd++
		}

		line := text[lineStart:lineEnd]
		from, to := markerSpan(line, pattern)
		if to > from {
			switch {
			case anchor >= lineStart+to:
				adjusted -= to - from
			case anchor > lineStart+from:
				adjusted -= anchor - (lineStart + from)
			}
			out = append(out, line[:from]...)
			out = append(out, line[to:]...)
		} else {
			out = append(out, line...)
		}

		if lineEnd == len(text) {
			return adjusted, out
		}
		out = append(out, '\n')
		lineStart = lineEnd + 1
	}
}

// markerSpan returns the [from, to) span of the comment marker at the start of
// line, or an empty span. Indentation before the marker is kept.
func markerSpan(line []rune, pattern *regexp.Regexp) (int, int) {
	indent := 0
	for indent < len(line) && isBlank(line[indent]) {
		indent++
	}

	if pattern != nil {
		rest := string(line[indent:])
		loc := pattern.FindStringIndex(rest)
		if loc == nil || loc[0] != 0 || loc[1] == 0 {
			return 0, 0
		}
		return indent, indent + utf8.RuneCountInString(rest[:loc[1]])
	}

	end := indent
	for end < len(line) && end-indent < maxMarkerLen && isMarkerRune(line[end]) {
		end++
	}
	if end == indent {
		return 0, 0
	}
	if end < len(line) && !isBlank(line[end]) {
		return 0, 0
	}
	for end < len(line) && isBlank(line[end]) {
		end++
	}
	return indent, end
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func isMarkerRune(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}
