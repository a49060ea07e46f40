package cluster

import (
	"math"
	"math/rand"

	"diaquant/domain/core"
)

const kmeansMaxIterations = 100

// KMeansResult is the best partition found across restarts.
type KMeansResult struct {
	Labels  []int // 1-based cluster labels
	Inertia float64
}

// KMeans runs seeded centroid clustering with multiple random restarts,
// keeping the lowest-inertia partition. The same seed, restart count and
// input always reproduce the same inertia.
func KMeans(rows [][]float64, k, restarts int, seed int64) (*KMeansResult, error) {
	n := len(rows)
	if k > n || k < 1 {
		return nil, core.NewDegenerateClusterRequestError(k, n)
	}
	if restarts < 1 {
		restarts = 1
	}

	rng := rand.New(rand.NewSource(seed))
	best := &KMeansResult{Inertia: math.Inf(1)}
	for r := 0; r < restarts; r++ {
		labels, inertia := lloyd(rows, k, rng)
		if inertia < best.Inertia {
			best = &KMeansResult{Labels: labels, Inertia: inertia}
		}
	}
	return best, nil
}

// lloyd is one k-means run from a random initialization.
func lloyd(rows [][]float64, k int, rng *rand.Rand) ([]int, float64) {
	n := len(rows)
	dim := len(rows[0])

	// Initialize centroids from k distinct rows.
	perm := rng.Perm(n)
	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float64(nil), rows[perm[c]]...)
	}

	assign := make([]int, n)
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, row := range rows {
			bestC := 0
			bestD := math.Inf(1)
			for c := range centroids {
				if d := sqDistance(row, centroids[c]); d < bestD {
					bestD = d
					bestC = c
				}
			}
			if assign[i] != bestC {
				assign[i] = bestC
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dim)
		}
		for i, row := range rows {
			c := assign[i]
			counts[c]++
			for j, v := range row {
				next[c][j] += v
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// Re-seed an empty cluster from a random row.
				next[c] = append([]float64(nil), rows[rng.Intn(n)]...)
				continue
			}
			for j := range next[c] {
				next[c][j] /= float64(counts[c])
			}
		}
		centroids = next
	}

	inertia := 0.0
	labels := make([]int, n)
	for i, row := range rows {
		inertia += sqDistance(row, centroids[assign[i]])
		labels[i] = assign[i] + 1
	}
	return labels, inertia
}
