// Package cluster groups entities by quantification profile: Ward-linkage
// agglomeration over standardized values picks the coarse structure,
// seeded k-means refines it, and a PCA projection supplies 2D coordinates
// for downstream rendering.
package cluster

import (
	"math"

	"diaquant/domain/core"
	"diaquant/domain/dataset"
	"diaquant/domain/frame"
	"diaquant/domain/sample"
)

// Options selects cluster counts and the reproducibility seed. Both counts
// default to the values picked by elbow inspection of the original data.
type Options struct {
	HierClusters   int
	KMeansClusters int
	Restarts       int
	Seed           int64
}

// DefaultOptions returns the original analysis parameters.
func DefaultOptions(seed int64) Options {
	return Options{HierClusters: 3, KMeansClusters: 4, Restarts: 25, Seed: seed}
}

// Assignment ties one entity to both cluster labels and its 2D projection.
// Labels are arbitrary integers, stable only within one run.
type Assignment struct {
	Entity       core.EntityID
	Hierarchical int
	KMeans       int
	PC1          float64
	PC2          float64
}

// Result is the full clustering output.
type Result struct {
	Assignments []Assignment
	Inertia     float64
	// DroppedRows counts entities excluded because a quantification value
	// was still missing (low-missingness columns are never imputed).
	DroppedRows int
}

// Run clusters the quantification columns of a cleaned, imputed frame.
func Run(f *frame.Frame, opts Options) (*Result, error) {
	entities, err := f.Strings(dataset.ColProteinGroups)
	if err != nil {
		return nil, err
	}

	var quantCols []string
	for _, name := range f.NumericColumnNames() {
		key, err := sample.ParseKey(name)
		if err != nil {
			continue
		}
		if key.Metric == sample.ProteinQuant {
			quantCols = append(quantCols, name)
		}
	}
	if len(quantCols) == 0 {
		return nil, core.ErrEmptyFrame
	}

	columns := make([][]float64, len(quantCols))
	for j, name := range quantCols {
		columns[j], err = f.Numbers(name)
		if err != nil {
			return nil, err
		}
	}

	var rows [][]float64
	var kept []int
	for i := 0; i < f.NumRows(); i++ {
		row := make([]float64, len(columns))
		complete := true
		for j := range columns {
			row[j] = columns[j][i]
			if math.IsNaN(row[j]) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, row)
			kept = append(kept, i)
		}
	}
	dropped := f.NumRows() - len(rows)

	if opts.HierClusters > len(rows) {
		return nil, core.NewDegenerateClusterRequestError(opts.HierClusters, len(rows))
	}
	if opts.KMeansClusters > len(rows) {
		return nil, core.NewDegenerateClusterRequestError(opts.KMeansClusters, len(rows))
	}

	standardized := Standardize(rows)

	hier, err := WardLabels(standardized, opts.HierClusters)
	if err != nil {
		return nil, err
	}

	km, err := KMeans(standardized, opts.KMeansClusters, opts.Restarts, opts.Seed)
	if err != nil {
		return nil, err
	}

	coords, err := Project2D(standardized)
	if err != nil {
		return nil, err
	}

	res := &Result{Inertia: km.Inertia, DroppedRows: dropped}
	for i, rowIdx := range kept {
		res.Assignments = append(res.Assignments, Assignment{
			Entity:       core.EntityID(entities[rowIdx]),
			Hierarchical: hier[i],
			KMeans:       km.Labels[i],
			PC1:          coords[i][0],
			PC2:          coords[i][1],
		})
	}
	return res, nil
}
