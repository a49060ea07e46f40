// Package testkit generates seeded synthetic quantification datasets for
// tests: known cell lines, replicates, a controlled treatment effect,
// injected missingness, decoy rows and compound protein-group keys.
package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"diaquant/domain/dataset"
	"diaquant/domain/frame"
)

// Spec controls the synthetic dataset shape.
type Spec struct {
	Proteins    int
	CellLines   []string
	Replicates  int
	Seed        int64
	MissingRate float64 // fraction of quant cells blanked per column
	DecoyEvery  int     // every n-th protein is a decoy, 0 disables
	// CompoundEvery makes every n-th protein a two-member compound group
	// ("Px;Px-ALT"), 0 disables.
	CompoundEvery int
	// TreatShift is added to treat-condition quant values for the first
	// half of the proteins, giving the tests a real effect to find.
	TreatShift float64
}

// DefaultSpec is a small dataset that exercises every pipeline stage.
func DefaultSpec(seed int64) Spec {
	return Spec{
		Proteins:      40,
		CellLines:     []string{"CellLine1", "CellLine2"},
		Replicates:    3,
		Seed:          seed,
		MissingRate:   0.15,
		DecoyEvery:    10,
		CompoundEvery: 8,
		TreatShift:    2.5,
	}
}

// SyntheticFrame builds a raw frame in the exact export schema.
func SyntheticFrame(spec Spec) *frame.Frame {
	rng := rand.New(rand.NewSource(spec.Seed))

	groups := make([]string, spec.Proteins)
	genes := make([]string, spec.Proteins)
	organisms := make([]string, spec.Proteins)
	decoys := make([]bool, spec.Proteins)
	for i := range groups {
		id := fmt.Sprintf("P%04d", i+1)
		groups[i] = id
		if spec.CompoundEvery > 0 && (i+1)%spec.CompoundEvery == 0 {
			groups[i] = id + dataset.GroupSeparator + id + "-ALT"
		}
		genes[i] = fmt.Sprintf("GENE%d", i+1)
		organisms[i] = "Homo sapiens"
		if spec.DecoyEvery > 0 && (i+1)%spec.DecoyEvery == 0 {
			decoys[i] = true
		}
	}

	columns := []frame.Column{
		frame.StringColumn(dataset.ColProteinGroups, groups),
		frame.StringColumn(dataset.ColGenes, genes),
		frame.StringColumn(dataset.ColOrganisms, organisms),
		frame.BoolColumn(dataset.ColIsDecoy, decoys),
	}

	baseline := make([]float64, spec.Proteins)
	for i := range baseline {
		baseline[i] = 14 + rng.NormFloat64()*2 // log2-intensity scale
	}

	for _, cellLine := range spec.CellLines {
		for _, condition := range []string{"vehicle", "treat"} {
			for rep := 1; rep <= spec.Replicates; rep++ {
				peptides := make([]float64, spec.Proteins)
				quants := make([]float64, spec.Proteins)
				for i := range quants {
					peptides[i] = float64(2 + rng.Intn(30))
					v := baseline[i] + rng.NormFloat64()*0.5
					if condition == "treat" && i < spec.Proteins/2 {
						v += spec.TreatShift
					}
					if rng.Float64() < spec.MissingRate {
						v = math.NaN()
					}
					quants[i] = v
				}
				prefix := fmt.Sprintf("%s.%s.%d", cellLine, condition, rep)
				columns = append(columns,
					frame.NumericColumn(prefix+"_NrOfPeptide", peptides),
					frame.NumericColumn(prefix+"_ProteinQuant", quants),
				)
			}
		}
	}

	f, err := frame.New(columns...)
	if err != nil {
		panic(err) // spec bug, not a runtime condition
	}
	return f
}
