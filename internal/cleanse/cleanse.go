// Package cleanse normalizes the raw record set: compound protein-group
// keys are exploded into one row per identifier, exact duplicate rows are
// dropped, and decoy entries are removed before any statistics run.
package cleanse

import (
	"strings"

	"diaquant/domain/core"
	"diaquant/domain/dataset"
	"diaquant/domain/frame"
)

// Result carries the normalized frame plus counters for the stage report.
type Result struct {
	Frame         *frame.Frame
	ExpandedRows  int // rows after explosion
	DuplicateRows int // exact duplicates removed
	DecoyRows     int // decoy entries removed
}

// Normalize runs expansion, dedup and the decoy filter in order.
func Normalize(f *frame.Frame) (*Result, error) {
	expanded, err := ExpandGroups(f)
	if err != nil {
		return nil, err
	}
	deduped := Dedup(expanded)
	filtered, decoys, err := DropDecoys(deduped)
	if err != nil {
		return nil, err
	}
	return &Result{
		Frame:         filtered,
		ExpandedRows:  expanded.NumRows(),
		DuplicateRows: expanded.NumRows() - deduped.NumRows(),
		DecoyRows:     decoys,
	}, nil
}

// ExpandGroups explodes each row into one row per semicolon-joined protein
// identifier, all other fields copied unchanged. A value without the
// separator passes through as a single-element split.
func ExpandGroups(f *frame.Frame) (*frame.Frame, error) {
	groups, err := f.Strings(dataset.ColProteinGroups)
	if err != nil {
		return nil, err
	}

	var rows []int
	var ids []string
	for i, compound := range groups {
		for _, id := range strings.Split(compound, dataset.GroupSeparator) {
			rows = append(rows, i)
			ids = append(ids, id)
		}
	}

	expanded := f.Select(rows)
	return expanded.WithStrings(dataset.ColProteinGroups, ids)
}

// Dedup removes rows that are exact duplicates across all fields, keeping
// the first occurrence. Applying it twice equals applying it once.
func Dedup(f *frame.Frame) *frame.Frame {
	seen := make(map[core.RowFingerprint]bool, f.NumRows())
	keep := make([]int, 0, f.NumRows())
	for i := 0; i < f.NumRows(); i++ {
		fp := f.Fingerprint(i)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		keep = append(keep, i)
	}
	if len(keep) == f.NumRows() {
		return f
	}
	return f.Select(keep)
}

// DropDecoys removes rows flagged as decoy entries and reports how many
// were dropped.
func DropDecoys(f *frame.Frame) (*frame.Frame, int, error) {
	decoys, err := f.Bools(dataset.ColIsDecoy)
	if err != nil {
		return nil, 0, err
	}
	keep := make([]int, 0, f.NumRows())
	for i, isDecoy := range decoys {
		if !isDecoy {
			keep = append(keep, i)
		}
	}
	dropped := f.NumRows() - len(keep)
	if dropped == 0 {
		return f, 0, nil
	}
	return f.Select(keep), dropped, nil
}
