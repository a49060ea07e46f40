// Package impute fills missing numeric values with multiple imputation by
// chained equations (MICE). Each incomplete column is regressed on the
// other selected columns and missing cells are filled by predictive mean
// matching: sample an observed donor whose predicted value is closest to
// the missing cell's predicted value. Several independently seeded chains
// run this cycle; the pooled result is the first chain unless mean pooling
// is requested.
package impute

import (
	"math"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"diaquant/domain/core"
	"diaquant/domain/frame"
)

// Options controls the chained-equations run.
type Options struct {
	Iterations int
	Chains     int
	Donors     int
	Seed       int64
	// PoolMean averages the completed chains per missing cell instead of
	// taking the first chain's value.
	PoolMean bool
}

// DefaultOptions matches the standard mice defaults used by the original
// analysis: 50 iterations, 5 chains, 5 donors.
func DefaultOptions(seed int64) Options {
	return Options{Iterations: 50, Chains: 5, Donors: 5, Seed: seed}
}

// Impute fills missing cells in the selected columns and returns a new
// frame; non-target columns are untouched. Same seed and input produce
// identical output. A target column with zero observed values yields
// ErrNoObservedData and aborts the stage.
func Impute(f *frame.Frame, columns []string, opts Options) (*frame.Frame, error) {
	if len(columns) == 0 {
		return f, nil
	}
	if opts.Iterations < 1 {
		opts.Iterations = 1
	}
	if opts.Chains < 1 {
		opts.Chains = 1
	}
	if opts.Donors < 1 {
		opts.Donors = 1
	}

	base := make([][]float64, len(columns))
	for j, name := range columns {
		values, err := f.Numbers(name)
		if err != nil {
			return nil, err
		}
		observed := 0
		for _, v := range values {
			if !math.IsNaN(v) {
				observed++
			}
		}
		if observed == 0 {
			return nil, core.NewNoObservedDataError(name)
		}
		base[j] = values
	}

	// Chains are independent; run them in parallel but pool
	// deterministically by chain index afterwards.
	completed := make([][][]float64, opts.Chains)
	var g errgroup.Group
	for chain := 0; chain < opts.Chains; chain++ {
		chain := chain
		g.Go(func() error {
			rng := rand.New(rand.NewSource(opts.Seed + int64(chain)))
			data, err := runChain(base, columns, opts, rng)
			if err != nil {
				return err
			}
			completed[chain] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pooled := pool(base, completed, opts.PoolMean)

	out := f
	var err error
	for j, name := range columns {
		out, err = out.WithNumbers(name, pooled[j])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// runChain executes one full chained-equations pass over a private copy of
// the data.
func runChain(base [][]float64, columns []string, opts Options, rng *rand.Rand) ([][]float64, error) {
	nRows := len(base[0])
	data := make([][]float64, len(base))
	missing := make([][]int, len(base))
	for j, col := range base {
		data[j] = append([]float64(nil), col...)
		for i, v := range col {
			if math.IsNaN(v) {
				missing[j] = append(missing[j], i)
			}
		}
	}

	// Initial fill: draw each missing cell from the column's observed values.
	for j := range data {
		if len(missing[j]) == 0 {
			continue
		}
		observed := observedValues(base[j])
		for _, i := range missing[j] {
			data[j][i] = observed[rng.Intn(len(observed))]
		}
	}

	for iter := 0; iter < opts.Iterations; iter++ {
		for j := range data {
			if len(missing[j]) == 0 {
				continue
			}
			predicted := predictColumn(data, base, j, nRows)
			if err := matchDonors(data, base, j, missing[j], predicted, opts.Donors, columns[j], rng); err != nil {
				return nil, err
			}
		}
	}
	return data, nil
}

// matchDonors replaces each missing cell in column j with an observed donor
// value whose prediction is closest to the missing cell's prediction.
func matchDonors(data, base [][]float64, j int, missingRows []int, predicted []float64, donors int, column string, rng *rand.Rand) error {
	type donor struct {
		row  int
		pred float64
	}
	var pool []donor
	for i, v := range base[j] {
		if !math.IsNaN(v) {
			pool = append(pool, donor{row: i, pred: predicted[i]})
		}
	}
	if len(pool) == 0 {
		return core.NewInsufficientDonorsError(column)
	}

	for _, i := range missingRows {
		target := predicted[i]
		sort.SliceStable(pool, func(a, b int) bool {
			da := math.Abs(pool[a].pred - target)
			db := math.Abs(pool[b].pred - target)
			if da == db {
				return pool[a].row < pool[b].row
			}
			return da < db
		})
		k := donors
		if k > len(pool) {
			k = len(pool)
		}
		chosen := pool[rng.Intn(k)]
		data[j][i] = base[j][chosen.row]
	}
	return nil
}

// pool merges the completed chains into one dataset. Observed cells come
// through unchanged; each originally-missing cell takes the first chain's
// value, or the chain mean when mean pooling is on.
func pool(base [][]float64, completed [][][]float64, meanPool bool) [][]float64 {
	out := make([][]float64, len(base))
	for j, col := range base {
		out[j] = append([]float64(nil), completed[0][j]...)
		if !meanPool {
			continue
		}
		for i, v := range col {
			if !math.IsNaN(v) {
				continue
			}
			sum := 0.0
			for _, chain := range completed {
				sum += chain[j][i]
			}
			out[j][i] = sum / float64(len(completed))
		}
	}
	return out
}

func observedValues(col []float64) []float64 {
	out := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
