package approx

import (
	"math"
	"slices"
)

// Candidate is one target offset consistent with an alignment of the search
// window, together with the target region and alignment that produced it.
// Alignment indices are relative to the region and the search window.
type Candidate struct {
	Offset    int
	Start     int
	End       int
	Cost      int
	Alignment Alignment
}

// Resolve picks the candidate offset closest to expected. It returns NotFound
// when there are no candidates, or when the runner-up lies within tolerance of
// the best distance; an exact tie is the zero-tolerance case of this rule.
func Resolve(candidates []Candidate, expected float64, tolerance int) int {
	offsets := make([]int, 0, len(candidates))
	for _, c := range candidates {
		offsets = append(offsets, c.Offset)
	}
	slices.Sort(offsets)
	offsets = slices.Compact(offsets)

	switch len(offsets) {
	case 0:
		return NotFound
	case 1:
		return offsets[0]
	}

	slices.SortStableFunc(offsets, func(a, b int) int {
		da, db := math.Abs(float64(a)-expected), math.Abs(float64(b)-expected)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})

	best := math.Abs(float64(offsets[0]) - expected)
	runnerUp := math.Abs(float64(offsets[1]) - expected)
	if runnerUp-best <= float64(max(tolerance, 0)) {
		return NotFound
	}
	return offsets[0]
}
