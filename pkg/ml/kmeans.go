package ml

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const kmeansMaxIterations = 300

// KMeansResult holds a fitted partitioning of the input matrix.
type KMeansResult struct {
	Centroids [][]float64
	Labels    []int
	Inertia   float64
}

// KMeans fits k clusters with Lloyd iterations and kmeans++ style seeding
// from a seeded source, so labels are deterministic for a fixed input
// matrix, seed and k.
func KMeans(x [][]float64, k int, seed int64) (*KMeansResult, error) {
	n := len(x)
	if k < 2 {
		return nil, fmt.Errorf("kmeans: cluster count must be at least 2, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("kmeans: %d rows cannot form %d clusters", n, k)
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(x, k, rng)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	dims := len(x[0])
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, row := range x {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := sqDist(row, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, row := range x {
			counts[labels[i]]++
			floats.Add(sums[labels[i]], row)
		}
		for c := range centroids {
			if counts[c] == 0 {
				// Empty cluster: reseed from the point farthest from its
				// current centroid.
				centroids[c] = append([]float64(nil), farthestPoint(x, labels, centroids)...)
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}

	inertia := 0.0
	for i, row := range x {
		inertia += sqDist(row, centroids[labels[i]])
	}

	return &KMeansResult{Centroids: centroids, Labels: labels, Inertia: inertia}, nil
}

// seedCentroids picks initial centroids with the kmeans++ rule: the first
// uniformly, the rest proportional to squared distance from the nearest
// chosen centroid.
func seedCentroids(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(x)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), x[rng.Intn(n)]...))

	dists := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, row := range x {
			nearest := math.Inf(1)
			for _, c := range centroids {
				if d := sqDist(row, c); d < nearest {
					nearest = d
				}
			}
			dists[i] = nearest
			total += nearest
		}
		if total == 0 {
			// All remaining points coincide with a centroid.
			centroids = append(centroids, append([]float64(nil), x[rng.Intn(n)]...))
			continue
		}
		target := rng.Float64() * total
		acc := 0.0
		pick := n - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), x[pick]...))
	}
	return centroids
}

func farthestPoint(x [][]float64, labels []int, centroids [][]float64) []float64 {
	worst, worstDist := 0, -1.0
	for i, row := range x {
		if d := sqDist(row, centroids[labels[i]]); d > worstDist {
			worst, worstDist = i, d
		}
	}
	return x[worst]
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
