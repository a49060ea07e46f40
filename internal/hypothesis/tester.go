// Package hypothesis computes per-group descriptive statistics and runs
// two-sample vehicle-vs-treat comparisons: Welch's t-test for approximately
// normal data and the Wilcoxon rank-sum test as the non-parametric
// alternative. Grouping keys without enough observations on either side are
// excluded from the result set and reported, never fatal.
package hypothesis

import (
	"fmt"
	"math"
	"sort"

	"diaquant/domain/core"
	"diaquant/domain/sample"
	"diaquant/internal/reshape"
)

// TestKind identifies which two-sample test produced a result.
type TestKind string

const (
	TestTTest    TestKind = "t-test"
	TestWilcoxon TestKind = "wilcoxon"
)

// TestResult is one computed comparison for a (cell line, replicate) key.
type TestResult struct {
	CellLine  string
	Replicate int
	Kind      TestKind
	Statistic float64
	PValue    float64
	NVehicle  int
	NTreat    int
}

// Key renders the grouping key for reports.
func (r TestResult) Key() string {
	return fmt.Sprintf("%s/rep%d", r.CellLine, r.Replicate)
}

// SkippedKey records a grouping key excluded from a result set and why.
type SkippedKey struct {
	Key    string
	Reason error
}

// ReplicateComparison is the per-replicate test output: partial results
// plus the keys that could not be tested.
type ReplicateComparison struct {
	Results []TestResult
	Skipped []SkippedKey
}

// EntityResult is the per-entity Wilcoxon comparison with its significance
// flag.
type EntityResult struct {
	Entity      core.EntityID
	PValue      float64
	NVehicle    int
	NTreat      int
	Significant bool
}

// EntityComparison is the per-entity test output.
type EntityComparison struct {
	Results []EntityResult
	Skipped []SkippedKey
	Alpha   float64
}

// CompareReplicates runs both tests for every (cell line, replicate) key,
// comparing vehicle against treat quantification values. A side with fewer
// than 2 observations excludes the key.
func CompareReplicates(obs []reshape.Observation) *ReplicateComparison {
	type key struct {
		cellLine  string
		replicate int
	}
	type split struct {
		vehicle []float64
		treat   []float64
	}
	groups := make(map[key]*split)
	for _, o := range obs {
		if o.Metric != sample.ProteinQuant || math.IsNaN(o.Value) {
			continue
		}
		k := key{cellLine: o.CellLine, replicate: o.Replicate}
		g := groups[k]
		if g == nil {
			g = &split{}
			groups[k] = g
		}
		if o.Condition == sample.Vehicle {
			g.vehicle = append(g.vehicle, o.Value)
		} else {
			g.treat = append(g.treat, o.Value)
		}
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].cellLine != keys[j].cellLine {
			return keys[i].cellLine < keys[j].cellLine
		}
		return keys[i].replicate < keys[j].replicate
	})

	cmp := &ReplicateComparison{}
	for _, k := range keys {
		g := groups[k]
		name := fmt.Sprintf("%s/rep%d", k.cellLine, k.replicate)
		if len(g.vehicle) < 2 || len(g.treat) < 2 {
			cmp.Skipped = append(cmp.Skipped, SkippedKey{
				Key:    name,
				Reason: core.NewInsufficientSampleSizeError(name, len(g.vehicle), len(g.treat)),
			})
			continue
		}

		tStat, tP, _ := WelchTTest(g.vehicle, g.treat)
		cmp.Results = append(cmp.Results, TestResult{
			CellLine: k.cellLine, Replicate: k.replicate,
			Kind: TestTTest, Statistic: tStat, PValue: tP,
			NVehicle: len(g.vehicle), NTreat: len(g.treat),
		})

		uStat, wP, _ := WilcoxonRankSum(g.vehicle, g.treat)
		cmp.Results = append(cmp.Results, TestResult{
			CellLine: k.cellLine, Replicate: k.replicate,
			Kind: TestWilcoxon, Statistic: uStat, PValue: wP,
			NVehicle: len(g.vehicle), NTreat: len(g.treat),
		})
	}
	return cmp
}

// CompareEntities runs a per-entity Wilcoxon test between its vehicle and
// treat values across all cell lines and replicates. An entity is flagged
// significant iff p < alpha.
func CompareEntities(obs []reshape.Observation, alpha float64) *EntityComparison {
	type split struct {
		vehicle []float64
		treat   []float64
	}
	groups := make(map[core.EntityID]*split)
	for _, o := range obs {
		if o.Metric != sample.ProteinQuant || math.IsNaN(o.Value) {
			continue
		}
		g := groups[o.Entity]
		if g == nil {
			g = &split{}
			groups[o.Entity] = g
		}
		if o.Condition == sample.Vehicle {
			g.vehicle = append(g.vehicle, o.Value)
		} else {
			g.treat = append(g.treat, o.Value)
		}
	}

	entities := make([]core.EntityID, 0, len(groups))
	for e := range groups {
		entities = append(entities, e)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i] < entities[j] })

	cmp := &EntityComparison{Alpha: alpha}
	for _, e := range entities {
		g := groups[e]
		if len(g.vehicle) < 2 || len(g.treat) < 2 {
			cmp.Skipped = append(cmp.Skipped, SkippedKey{
				Key:    e.String(),
				Reason: core.NewInsufficientSampleSizeError(e.String(), len(g.vehicle), len(g.treat)),
			})
			continue
		}
		_, p, _ := WilcoxonRankSum(g.vehicle, g.treat)
		cmp.Results = append(cmp.Results, EntityResult{
			Entity:      e,
			PValue:      p,
			NVehicle:    len(g.vehicle),
			NTreat:      len(g.treat),
			Significant: p < alpha,
		})
	}
	return cmp
}
