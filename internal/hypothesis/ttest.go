package hypothesis

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"diaquant/domain/core"
)

// WelchTTest compares two group means without assuming equal variances.
// It returns the t statistic and a two-sided p-value from the Student's t
// distribution with Welch-Satterthwaite degrees of freedom.
func WelchTTest(x, y []float64) (tStat, pValue float64, err error) {
	if len(x) < 2 || len(y) < 2 {
		return 0, 1, core.ErrInsufficientSampleSize
	}

	n1 := float64(len(x))
	n2 := float64(len(y))
	mean1 := stat.Mean(x, nil)
	mean2 := stat.Mean(y, nil)
	var1 := stat.Variance(x, nil)
	var2 := stat.Variance(y, nil)

	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		// Both groups constant: identical means carry no evidence,
		// different means are maximal evidence.
		if mean1 == mean2 {
			return 0, 1, nil
		}
		return math.Inf(1), 0, nil
	}

	tStat = (mean1 - mean2) / se
	df := math.Pow(var1/n1+var2/n2, 2) /
		(math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue = 2 * dist.CDF(-math.Abs(tStat))
	if pValue > 1 {
		pValue = 1
	}
	return tStat, pValue, nil
}
