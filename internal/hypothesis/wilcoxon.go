package hypothesis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"diaquant/domain/core"
)

// WilcoxonRankSum runs the two-sided Wilcoxon rank-sum (Mann-Whitney U)
// test with average ranks for ties and a tie-corrected normal
// approximation. The statistic is min(U1, U2), so the test is symmetric in
// its arguments.
func WilcoxonRankSum(x, y []float64) (uStat, pValue float64, err error) {
	if len(x) < 2 || len(y) < 2 {
		return 0, 1, core.ErrInsufficientSampleSize
	}

	type entry struct {
		val   float64
		first bool // belongs to x
	}
	combined := make([]entry, 0, len(x)+len(y))
	for _, v := range x {
		combined = append(combined, entry{val: v, first: true})
	}
	for _, v := range y {
		combined = append(combined, entry{val: v})
	}
	sort.Slice(combined, func(i, j int) bool { return combined[i].val < combined[j].val })

	n := len(combined)
	ranks := make([]float64, n)
	tieSum := 0.0
	for i := 0; i < n; {
		j := i
		for j < n && combined[j].val == combined[i].val {
			j++
		}
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[k] = avgRank
		}
		if t := float64(j - i); t > 1 {
			tieSum += t*t*t - t
		}
		i = j
	}

	r1 := 0.0
	for i, e := range combined {
		if e.first {
			r1 += ranks[i]
		}
	}

	n1 := float64(len(x))
	n2 := float64(len(y))
	u1 := r1 - n1*(n1+1)/2
	u2 := n1*n2 - u1
	uStat = math.Min(u1, u2)

	muU := n1 * n2 / 2
	nf := float64(n)
	sigmaU := math.Sqrt(n1 * n2 * ((nf + 1) - tieSum/(nf*(nf-1))) / 12)
	if sigmaU < 1e-12 {
		// Every observation tied across both groups.
		return uStat, 1, nil
	}

	z := (uStat - muU) / sigmaU
	pValue = 2 * distuv.UnitNormal.CDF(z)
	if pValue > 1 {
		pValue = 1
	}
	return uStat, pValue, nil
}
