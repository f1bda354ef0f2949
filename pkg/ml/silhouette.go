package ml

import (
	"gonum.org/v1/gonum/floats"
)

// Silhouette scores how well-separated a clustering is: the mean, over all
// points, of (b-a)/max(a,b), where a is the average distance to the
// point's own cluster and b the average distance to the nearest other
// cluster. Points in singleton clusters contribute zero.
func Silhouette(x [][]float64, labels []int) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	total := 0.0
	sums := make([]float64, k)
	for i, row := range x {
		for c := range sums {
			sums[c] = 0
		}
		for j, other := range x {
			if i == j {
				continue
			}
			sums[labels[j]] += floats.Distance(row, other, 2)
		}

		own := labels[i]
		if counts[own] <= 1 {
			continue
		}
		a := sums[own] / float64(counts[own]-1)

		b := -1.0
		for c := range sums {
			if c == own || counts[c] == 0 {
				continue
			}
			avg := sums[c] / float64(counts[c])
			if b < 0 || avg < b {
				b = avg
			}
		}
		if b < 0 {
			continue
		}

		max := a
		if b > max {
			max = b
		}
		if max > 0 {
			total += (b - a) / max
		}
	}

	return total / float64(n)
}
