package cleanse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diaquant/domain/dataset"
	"diaquant/domain/frame"
)

func rawFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(
		frame.StringColumn(dataset.ColProteinGroups, []string{"P1;P2", "P3", "P3", "DECOY1"}),
		frame.StringColumn(dataset.ColGenes, []string{"GENEA", "GENEB", "GENEB", "GENEX"}),
		frame.StringColumn(dataset.ColOrganisms, []string{"Homo sapiens", "Homo sapiens", "Homo sapiens", "Homo sapiens"}),
		frame.BoolColumn(dataset.ColIsDecoy, []bool{false, false, false, true}),
		frame.NumericColumn("CellLine1.vehicle.1_ProteinQuant", []float64{10, 20, 20, 30}),
	)
	require.NoError(t, err)
	return f
}

func TestExpandGroups_OneRowPerIdentifier(t *testing.T) {
	expanded, err := ExpandGroups(rawFrame(t))
	require.NoError(t, err)

	// "P1;P2" contributes 2 rows, the other 3 rows pass through unchanged.
	assert.Equal(t, 5, expanded.NumRows())

	ids, err := expanded.Strings(dataset.ColProteinGroups)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2", "P3", "P3", "DECOY1"}, ids)

	// Exploded copies differ only in the identifier field.
	genes, err := expanded.Strings(dataset.ColGenes)
	require.NoError(t, err)
	assert.Equal(t, genes[0], genes[1])
	values, err := expanded.Numbers("CellLine1.vehicle.1_ProteinQuant")
	require.NoError(t, err)
	assert.Equal(t, values[0], values[1])
}

func TestExpandGroups_NoSeparatorPassesThrough(t *testing.T) {
	f, err := frame.New(
		frame.StringColumn(dataset.ColProteinGroups, []string{"P9"}),
		frame.BoolColumn(dataset.ColIsDecoy, []bool{false}),
	)
	require.NoError(t, err)

	expanded, err := ExpandGroups(f)
	require.NoError(t, err)
	assert.Equal(t, 1, expanded.NumRows())
}

func TestDedup_Idempotent(t *testing.T) {
	expanded, err := ExpandGroups(rawFrame(t))
	require.NoError(t, err)

	once := Dedup(expanded)
	twice := Dedup(once)

	assert.Equal(t, 4, once.NumRows()) // the duplicate P3 row collapses
	assert.Equal(t, once.NumRows(), twice.NumRows())
	for i := 0; i < once.NumRows(); i++ {
		assert.Equal(t, once.RowCells(i), twice.RowCells(i))
	}
}

func TestDropDecoys_NoDecoysRemain(t *testing.T) {
	filtered, dropped, err := DropDecoys(rawFrame(t))
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	decoys, err := filtered.Bools(dataset.ColIsDecoy)
	require.NoError(t, err)
	for _, d := range decoys {
		assert.False(t, d)
	}
}

func TestNormalize_FullChain(t *testing.T) {
	res, err := Normalize(rawFrame(t))
	require.NoError(t, err)

	assert.Equal(t, 5, res.ExpandedRows)
	assert.Equal(t, 1, res.DuplicateRows)
	assert.Equal(t, 1, res.DecoyRows)
	assert.Equal(t, 3, res.Frame.NumRows())
}
