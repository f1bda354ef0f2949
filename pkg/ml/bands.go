package ml

import "sort"

// QuantileBands splits values into q near-equal groups by ascending value
// and returns the zero-based band per row (0 = lowest values). Cut points
// come from the population's own order statistics, so group sizes differ
// by at most one; ties fall into bands by original row order, keeping the
// assignment deterministic.
func QuantileBands(values []float64, q int) []int {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	bands := make([]int, n)
	for pos, i := range idx {
		bands[i] = pos * q / n
	}
	return bands
}
