package cluster

import (
	"math"

	"diaquant/domain/core"
)

// WardLabels agglomerates rows with Ward's variance-minimizing linkage over
// pairwise Euclidean distances and cuts the tree at k clusters. Labels are
// arbitrary integers 1..k, assigned in order of each cluster's first member.
func WardLabels(rows [][]float64, k int) ([]int, error) {
	n := len(rows)
	if k > n {
		return nil, core.NewDegenerateClusterRequestError(k, n)
	}
	if k < 1 {
		return nil, core.NewDegenerateClusterRequestError(k, n)
	}

	// Squared Euclidean distances feed the Lance-Williams update below,
	// which reproduces Ward's criterion.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := sqDistance(rows[i], rows[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	members := make([][]int, n)
	size := make([]float64, n)
	active := make([]bool, n)
	for i := 0; i < n; i++ {
		members[i] = []int{i}
		size[i] = 1
		active[i] = true
	}

	for remaining := n; remaining > k; remaining-- {
		// Find the closest active pair.
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if dist[i][j] < best {
					best = dist[i][j]
					bi, bj = i, j
				}
			}
		}

		// Merge bj into bi and update distances per Lance-Williams.
		ns, nt := size[bi], size[bj]
		for v := 0; v < n; v++ {
			if !active[v] || v == bi || v == bj {
				continue
			}
			nv := size[v]
			d := ((nv+ns)*dist[v][bi] + (nv+nt)*dist[v][bj] - nv*dist[bi][bj]) / (ns + nt + nv)
			dist[v][bi] = d
			dist[bi][v] = d
		}
		members[bi] = append(members[bi], members[bj]...)
		size[bi] += size[bj]
		active[bj] = false
	}

	// Label clusters by their first (lowest-index) member for stability
	// within a run.
	type clusterInfo struct {
		first int
		rows  []int
	}
	var clusters []clusterInfo
	for i := 0; i < n; i++ {
		if !active[i] {
			continue
		}
		first := members[i][0]
		for _, r := range members[i] {
			if r < first {
				first = r
			}
		}
		clusters = append(clusters, clusterInfo{first: first, rows: members[i]})
	}
	for i := 1; i < len(clusters); i++ {
		for j := i; j > 0 && clusters[j-1].first > clusters[j].first; j-- {
			clusters[j-1], clusters[j] = clusters[j], clusters[j-1]
		}
	}

	labels := make([]int, n)
	for label, c := range clusters {
		for _, r := range c.rows {
			labels[r] = label + 1
		}
	}
	return labels, nil
}

func sqDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
