package index

// editDistanceWithin computes the Levenshtein distance between a and b,
// giving up as soon as the distance is guaranteed to exceed max. It
// returns the distance and whether it is within max.
func editDistanceWithin(a, b string, max int) (int, bool) {
	if max < 0 {
		return 0, false
	}
	la, lb := len(a), len(b)
	if la-lb > max || lb-la > max {
		return 0, false
	}
	if la == 0 {
		return lb, lb <= max
	}
	if lb == 0 {
		return la, la <= max
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			d := del
			if ins < d {
				d = ins
			}
			if sub < d {
				d = sub
			}
			curr[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > max {
			return 0, false
		}
		prev, curr = curr, prev
	}

	if prev[lb] > max {
		return 0, false
	}
	return prev[lb], true
}
