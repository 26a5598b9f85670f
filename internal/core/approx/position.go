// Package approx maps an offset in one text to the corresponding offset in a
// near-identical derived text, such as markup source and its rendered plain
// text. All offsets are code point offsets. Every function is pure and safe
// for concurrent use; no state survives a call.
package approx

import (
	"errors"
	"fmt"
	"regexp"
)

// NotFound is returned when no unambiguous corresponding offset exists.
const NotFound = -1

// ErrAnchorOutOfRange reports an anchor outside [0, len(text)].
var ErrAnchorOutOfRange = errors.New("anchor out of range")

// ValidateAnchor checks that anchor is a valid gap offset into text.
// FindPosition clamps instead of failing; callers that want to reject bad
// input call this first.
func ValidateAnchor(anchor int, text string) error {
	n := len([]rune(text))
	if anchor < 0 || anchor > n {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrAnchorOutOfRange, anchor, n)
	}
	return nil
}

// Options bounds the windows handed to the alignment engine.
type Options struct {
	// ContextLines is the number of lines above and below the anchor line
	// included in the search window.
	ContextLines int
	// SearchRadius caps the search window to this many code points on either
	// side of the anchor.
	SearchRadius int
	// TargetRadius is the half-width of the target window centered on the
	// proportional estimate. Shorter targets are searched whole.
	TargetRadius int
	// CommentPattern overrides the built-in comment marker recognizer. It is
	// matched at the start of each line after indentation.
	CommentPattern *regexp.Regexp
}

// DefaultOptions returns the options used by FindPosition.
func DefaultOptions() Options {
	return Options{
		ContextLines: 1,
		SearchRadius: 40,
		TargetRadius: 4096,
	}
}

// Mapper answers "index in search text -> index in target text".
type Mapper struct {
	opts Options
}

// NewMapper creates a Mapper. Non-positive radii fall back to the defaults
// and a negative ContextLines is treated as zero.
func NewMapper(opts Options) *Mapper {
	defaults := DefaultOptions()
	if opts.ContextLines < 0 {
		opts.ContextLines = 0
	}
	if opts.SearchRadius <= 0 {
		opts.SearchRadius = defaults.SearchRadius
	}
	if opts.TargetRadius <= 0 {
		opts.TargetRadius = defaults.TargetRadius
	}
	return &Mapper{opts: opts}
}

// Options returns the effective options.
func (m *Mapper) Options() Options {
	return m.opts
}

var defaultMapper = NewMapper(DefaultOptions())

// FindPosition maps anchor in searchText to an offset in targetText using the
// default options. See Mapper.FindPosition.
func FindPosition(anchor int, searchText, targetText string) int {
	return defaultMapper.FindPosition(anchor, searchText, targetText)
}

// FindPosition returns the offset in targetText corresponding to anchor in
// searchText, or NotFound when nothing matches or the match is ambiguous.
// An anchor outside [0, len(searchText)] is clamped into range.
//
// The search window around the anchor is stripped of comment markers, located
// in the target by approximate substring search, refined with Align, and the
// resulting candidates are resolved against the proportional estimate
// anchor*len(target)/len(search). Forward and backward mapping are not
// guaranteed to round-trip exactly.
func (m *Mapper) FindPosition(anchor int, searchText, targetText string) int {
	return m.Resolve(m.Candidates(anchor, searchText, targetText))
}

// Match carries everything FindPosition derives before resolving.
type Match struct {
	Candidates []Candidate
	Expected   float64
	Tolerance  int
}

// Resolve applies the ambiguity policy to a Match.
func (m *Mapper) Resolve(match Match) int {
	return Resolve(match.Candidates, match.Expected, match.Tolerance)
}

// Candidates computes the candidate offsets for anchor without resolving them.
func (m *Mapper) Candidates(anchor int, searchText, targetText string) Match {
	search, target := []rune(searchText), []rune(targetText)
	if len(search) == 0 || len(target) == 0 {
		return Match{}
	}
	anchor = min(max(anchor, 0), len(search))

	from, to := m.searchWindow(search, anchor)
	local, pattern := normalizeRunes(anchor-from, search[from:to], m.opts.CommentPattern)
	if len(pattern) == 0 {
		return Match{}
	}

	expected := float64(anchor) * float64(len(target)) / float64(len(search))
	tFrom, tTo := m.targetWindow(len(target), expected)
	window := target[tFrom:tTo]

	cost, regions := locate(pattern, window)
	candidates := make([]Candidate, 0, len(regions))
	for _, r := range regions {
		al := alignRunes(pattern, window[r.start:r.end])
		offset, ok := mapAnchor(local, al)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			Offset:    tFrom + r.start + offset,
			Start:     tFrom + r.start,
			End:       tFrom + r.end,
			Cost:      cost,
			Alignment: al,
		})
	}

	return Match{Candidates: candidates, Expected: expected, Tolerance: len(pattern)}
}

// searchWindow covers the anchor line plus ContextLines lines on each side,
// clipped to SearchRadius code points around the anchor.
func (m *Mapper) searchWindow(text []rune, anchor int) (int, int) {
	start := lineStart(text, anchor)
	for k := 0; k < m.opts.ContextLines && start > 0; k++ {
		start = lineStart(text, start-1)
	}

	end := lineEnd(text, anchor)
	for k := 0; k < m.opts.ContextLines && end < len(text); k++ {
		end = lineEnd(text, end+1)
	}

	return max(start, anchor-m.opts.SearchRadius), min(end, anchor+m.opts.SearchRadius)
}

func (m *Mapper) targetWindow(n int, expected float64) (int, int) {
	width := 2 * m.opts.TargetRadius
	if n <= width {
		return 0, n
	}
	from := max(0, int(expected)-m.opts.TargetRadius)
	to := min(n, from+width)
	return max(0, to-width), to
}

func lineStart(text []rune, pos int) int {
	for pos > 0 && text[pos-1] != '\n' {
		pos--
	}
	return pos
}

func lineEnd(text []rune, pos int) int {
	for pos < len(text) && text[pos] != '\n' {
		pos++
	}
	return pos
}
