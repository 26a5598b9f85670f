package approx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		offsets   []int
		expected  float64
		tolerance int
		want      int
	}{
		{name: "no candidates", offsets: nil, expected: 3, tolerance: 0, want: NotFound},
		{name: "single candidate", offsets: []int{7}, expected: 100, tolerance: 50, want: 7},
		{name: "duplicates collapse", offsets: []int{7, 7, 7}, expected: 0, tolerance: 50, want: 7},
		{name: "closest wins", offsets: []int{2, 86}, expected: 5, tolerance: 4, want: 2},
		{name: "exact tie", offsets: []int{2, 45}, expected: 23.5, tolerance: 0, want: NotFound},
		{name: "runner-up within tolerance", offsets: []int{4, 8, 12}, expected: 8.5, tolerance: 4, want: NotFound},
		{name: "runner-up outside tolerance", offsets: []int{4, 8, 12}, expected: 8.5, tolerance: 2, want: 8},
		{name: "negative tolerance acts as zero", offsets: []int{10, 20}, expected: 14, tolerance: -3, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := make([]Candidate, 0, len(tt.offsets))
			for _, o := range tt.offsets {
				candidates = append(candidates, Candidate{Offset: o})
			}
			assert.Equal(t, tt.want, Resolve(candidates, tt.expected, tt.tolerance))
		})
	}
}
