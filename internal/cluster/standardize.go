package cluster

import (
	"gonum.org/v1/gonum/stat"
)

// Standardize z-scores each column of a row-major matrix. Constant columns
// become all zeros rather than dividing by zero.
func Standardize(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	nCols := len(rows[0])
	out := make([][]float64, len(rows))
	for i := range out {
		out[i] = make([]float64, nCols)
	}

	col := make([]float64, len(rows))
	for j := 0; j < nCols; j++ {
		for i := range rows {
			col[i] = rows[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		for i := range rows {
			if std == 0 {
				out[i][j] = 0
				continue
			}
			out[i][j] = (rows[i][j] - mean) / std
		}
	}
	return out
}
