package impute

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// predictColumn fits an ordinary least squares regression of column j on
// every other selected column, using rows where column j is observed, and
// returns predictions for all rows. The chained-equations initial fill
// guarantees predictors are complete. Degenerate fits (too few observed
// rows, singular design) fall back to the observed mean.
func predictColumn(data, base [][]float64, j, nRows int) []float64 {
	var obsRows []int
	for i, v := range base[j] {
		if !math.IsNaN(v) {
			obsRows = append(obsRows, i)
		}
	}

	var predictors []int
	for p := range data {
		if p != j {
			predictors = append(predictors, p)
		}
	}

	mean := 0.0
	for _, i := range obsRows {
		mean += data[j][i]
	}
	mean /= float64(len(obsRows))

	flat := make([]float64, nRows)
	for i := range flat {
		flat[i] = mean
	}

	nCoef := len(predictors) + 1
	if len(predictors) == 0 || len(obsRows) <= nCoef {
		return flat
	}

	X := mat.NewDense(len(obsRows), nCoef, nil)
	y := mat.NewVecDense(len(obsRows), nil)
	for r, i := range obsRows {
		X.Set(r, 0, 1)
		for c, p := range predictors {
			X.Set(r, c+1, data[p][i])
		}
		y.SetVec(r, data[j][i])
	}

	var qr mat.QR
	qr.Factorize(X)
	beta := mat.NewVecDense(nCoef, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		return flat
	}

	out := make([]float64, nRows)
	for i := 0; i < nRows; i++ {
		pred := beta.AtVec(0)
		for c, p := range predictors {
			pred += beta.AtVec(c+1) * data[p][i]
		}
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			pred = mean
		}
		out[i] = pred
	}
	return out
}
