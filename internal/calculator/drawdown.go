package calculator

// MaxDrawdown scans a cumulative curve and returns the largest fall from a
// running high, as a fraction of that high (0.0 ~ 1.0).
func MaxDrawdown(cum []float64) float64 {
	if len(cum) == 0 {
		return 0
	}
	high := cum[0]
	maxDD := 0.0
	for _, v := range cum {
		if v > high {
			high = v
		}
		if high <= 0 {
			continue
		}
		if dd := (high - v) / high; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// Exposure returns the fraction of periods with an open position.
func Exposure(position []int) float64 {
	if len(position) == 0 {
		return 0
	}
	held := 0
	for _, p := range position {
		if p != 0 {
			held++
		}
	}
	return float64(held) / float64(len(position))
}

// CountEntries counts flat-to-long transitions.
func CountEntries(position []int) int {
	n := 0
	prev := 0
	for _, p := range position {
		if p == 1 && prev == 0 {
			n++
		}
		prev = p
	}
	return n
}
