package approx

// region is a half-open span of the target window.
type region struct {
	start int
	end   int
}

// locate fits all of pattern into some substring of target with the fewest
// edits (insertions, deletions and substitutions all cost one) and returns
// that cost together with every region achieving it. Regions that overlap are
// merged; regions that merely touch stay separate.
//
// Only two rows of costs are kept. The start of the best path is carried
// along each cell instead of a traceback table, preferring the later start on
// equal cost so regions stay tight.
func locate(pattern, target []rune) (int, []region) {
	n, m := len(pattern), len(target)

	prevCost, curCost := make([]int, m+1), make([]int, m+1)
	prevStart, curStart := make([]int, m+1), make([]int, m+1)
	for j := 0; j <= m; j++ {
		prevStart[j] = j
	}

	for i := 1; i <= n; i++ {
		curCost[0], curStart[0] = i, 0
		for j := 1; j <= m; j++ {
			cost, start := prevCost[j-1], prevStart[j-1]
			if pattern[i-1] != target[j-1] {
				cost++
			}
			if c := prevCost[j] + 1; c < cost || (c == cost && prevStart[j] > start) {
				cost, start = c, prevStart[j]
			}
			if c := curCost[j-1] + 1; c < cost || (c == cost && curStart[j-1] > start) {
				cost, start = c, curStart[j-1]
			}
			curCost[j], curStart[j] = cost, start
		}
		prevCost, curCost = curCost, prevCost
		prevStart, curStart = curStart, prevStart
	}

	best := prevCost[0]
	for _, c := range prevCost[1:] {
		best = min(best, c)
	}

	var regions []region
	for j := 0; j <= m; j++ {
		if prevCost[j] != best {
			continue
		}
		start := prevStart[j]
		if last := len(regions) - 1; last >= 0 && start < regions[last].end {
			regions[last].start = min(regions[last].start, start)
			regions[last].end = j
			continue
		}
		regions = append(regions, region{start: start, end: j})
	}

	return best, regions
}
