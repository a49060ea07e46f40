// Package reshape pivots the wide per-sample columns into the long relation
// used by the statistics and clustering stages. Sample column names are
// parsed exactly once here; downstream code only sees typed keys.
package reshape

import (
	"diaquant/domain/core"
	"diaquant/domain/dataset"
	"diaquant/domain/frame"
	"diaquant/domain/sample"
)

// Observation is one long-form row: a single measurement of one entity in
// one sample.
type Observation struct {
	Entity    core.EntityID
	Gene      string
	CellLine  string
	Condition sample.Condition
	Replicate int
	Metric    sample.Metric
	Value     float64 // NaN when the cell is still missing
}

// SkippedColumn records a column excluded from the long form and why.
type SkippedColumn struct {
	Name   string
	Reason error
}

// Result is the long-form output plus the columns that did not take part.
type Result struct {
	Observations []Observation
	MatchedKeys  []sample.Key
	Skipped      []SkippedColumn
}

// Melt produces one Observation per (row, matched sample column). Columns
// whose names do not parse are excluded and reported, never fatal. The
// identifier and metadata columns are exempt from pattern matching.
func Melt(f *frame.Frame) (*Result, error) {
	entities, err := f.Strings(dataset.ColProteinGroups)
	if err != nil {
		return nil, err
	}
	genes, err := f.Strings(dataset.ColGenes)
	if err != nil {
		return nil, err
	}

	exempt := make(map[string]bool, len(dataset.RequiredColumns))
	for _, name := range dataset.RequiredColumns {
		exempt[name] = true
	}

	res := &Result{}
	for _, name := range f.ColumnNames() {
		if exempt[name] {
			continue
		}
		key, err := sample.ParseKey(name)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedColumn{Name: name, Reason: err})
			continue
		}
		values, err := f.Numbers(name)
		if err != nil {
			return nil, err
		}
		res.MatchedKeys = append(res.MatchedKeys, key)
		for i, v := range values {
			res.Observations = append(res.Observations, Observation{
				Entity:    core.EntityID(entities[i]),
				Gene:      genes[i],
				CellLine:  key.CellLine,
				Condition: key.Condition,
				Replicate: key.Replicate,
				Metric:    key.Metric,
				Value:     v,
			})
		}
	}
	return res, nil
}
