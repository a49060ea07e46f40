package hypothesis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"diaquant/domain/sample"
	"diaquant/internal/reshape"
)

// GroupSummary holds descriptive statistics of the quantification values
// for one (cell line, condition) group, missing values ignored.
type GroupSummary struct {
	CellLine  string
	Condition sample.Condition
	Count     int
	Mean      float64
	Median    float64
	StdDev    float64
	Min       float64
	Max       float64
}

// Summarize computes per-group descriptive statistics over ProteinQuant
// observations. Groups are ordered by cell line, vehicle before treat.
func Summarize(obs []reshape.Observation) []GroupSummary {
	type key struct {
		cellLine  string
		condition sample.Condition
	}
	groups := make(map[key][]float64)
	for _, o := range obs {
		if o.Metric != sample.ProteinQuant || math.IsNaN(o.Value) {
			continue
		}
		k := key{cellLine: o.CellLine, condition: o.Condition}
		groups[k] = append(groups[k], o.Value)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].cellLine != keys[j].cellLine {
			return keys[i].cellLine < keys[j].cellLine
		}
		return keys[i].condition == sample.Vehicle && keys[j].condition == sample.Treat
	})

	out := make([]GroupSummary, 0, len(keys))
	for _, k := range keys {
		values := groups[k]
		s := GroupSummary{CellLine: k.cellLine, Condition: k.condition, Count: len(values)}
		s.Mean, _ = stats.Mean(values)
		s.Median, _ = stats.Median(values)
		s.StdDev, _ = stats.StandardDeviationSample(values)
		s.Min, _ = stats.Min(values)
		s.Max, _ = stats.Max(values)
		out = append(out, s)
	}
	return out
}
