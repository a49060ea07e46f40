package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Project2D computes the first two principal components of a row-major
// matrix and returns the per-row 2D coordinates. Inputs with a single
// feature project onto (x, 0).
func Project2D(rows [][]float64) ([][2]float64, error) {
	n := len(rows)
	if n < 2 {
		return nil, fmt.Errorf("pca needs at least 2 rows, got %d", n)
	}
	dim := len(rows[0])

	flat := make([]float64, 0, n*dim)
	for _, row := range rows {
		flat = append(flat, row...)
	}
	data := mat.NewDense(n, dim, flat)

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, fmt.Errorf("principal component decomposition failed")
	}

	// Scores are computed on column-centered data.
	for j := 0; j < dim; j++ {
		mean := stat.Mean(mat.Col(nil, j, data), nil)
		for i := 0; i < n; i++ {
			data.Set(i, j, data.At(i, j)-mean)
		}
	}

	components := 2
	if dim < 2 {
		components = dim
	}
	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	var projected mat.Dense
	projected.Mul(data, vectors.Slice(0, dim, 0, components))

	coords := make([][2]float64, n)
	for i := 0; i < n; i++ {
		coords[i][0] = projected.At(i, 0)
		if components > 1 {
			coords[i][1] = projected.At(i, 1)
		}
	}
	return coords, nil
}
