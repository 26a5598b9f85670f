package approx

import "strings"

// Pair is one matched character of an alignment.
type Pair struct {
	Search int
	Target int
	Char   rune
}

// Alignment is one longest common subsequence of two texts, ordered and
// strictly increasing in both Search and Target.
type Alignment []Pair

// String returns the common subsequence the alignment spells out.
func (a Alignment) String() string {
	var b strings.Builder
	for _, p := range a {
		b.WriteRune(p.Char)
	}
	return b.String()
}

// Align computes a longest common subsequence of pattern and target using
// exact code point equality. Indices in the result are code point offsets.
//
// When several subsequences share the maximal length the backtrack, walking
// from the end of both texts, first drops a pattern character whenever that
// keeps the length, then a target character, and only takes a match when the
// table forces it. Matches therefore land as late as possible in the pattern.
func Align(pattern, target string) Alignment {
	return alignRunes([]rune(pattern), []rune(target))
}

func alignRunes(a, b []rune) Alignment {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return Alignment{}
	}

	width := m + 1
	table := make([]int32, (n+1)*width)
	for i := 1; i <= n; i++ {
		row, prev := i*width, (i-1)*width
		for j := 1; j <= m; j++ {
			switch {
			case a[i-1] == b[j-1]:
				table[row+j] = table[prev+j-1] + 1
			case table[prev+j] >= table[row+j-1]:
				table[row+j] = table[prev+j]
			default:
				table[row+j] = table[row+j-1]
			}
		}
	}

	k := int(table[n*width+m])
	out := make(Alignment, k)

	i, j := n, m
	for i > 0 && j > 0 {
		cur := table[i*width+j]
		switch {
		case cur == table[(i-1)*width+j]:
			i--
		case cur == table[i*width+j-1]:
			j--
		default:
			k--
			out[k] = Pair{Search: i - 1, Target: j - 1, Char: a[i-1]}
			i--
			j--
		}
	}

	return out
}

// mapAnchor translates a gap offset in the aligned pattern into a gap offset
// in the aligned target through the pair nearest to it. A pair at or after the
// anchor maps to its own target index, a pair before it to the index just past
// its target character. Equal distances prefer the pair at or after.
func mapAnchor(anchor int, al Alignment) (int, bool) {
	best, offset := -1, 0
	for _, p := range al {
		var dist, target int
		if p.Search >= anchor {
			dist, target = p.Search-anchor, p.Target
		} else {
			dist, target = anchor-p.Search-1, p.Target+1
		}

		if best < 0 || dist < best || (dist == best && p.Search >= anchor) {
			best, offset = dist, target
		}
	}
	return offset, best >= 0
}
