package ingest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diaquant/domain/dataset"
	"diaquant/domain/frame"
)

func records() [][]string {
	return [][]string{
		{"PG.ProteinGroups", "PG.Genes", "PG.Organisms", "EG.IsDecoy", "CellLine1.vehicle.1_ProteinQuant"},
		{"P1;P2", "GENEA", "Homo sapiens", "False", "12.5"},
		{"P3", "GENEB", "Homo sapiens", "True", "Filtered"},
		{"P4", "GENEC", "Homo sapiens", "", "NaN"},
	}
}

func TestBuildFrame_Types(t *testing.T) {
	f, err := BuildFrame(records())
	require.NoError(t, err)
	require.Equal(t, 3, f.NumRows())

	groups, err := f.Strings(dataset.ColProteinGroups)
	require.NoError(t, err)
	assert.Equal(t, "P1;P2", groups[0])

	decoys, err := f.Bools(dataset.ColIsDecoy)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, decoys)

	col, err := f.Column("CellLine1.vehicle.1_ProteinQuant")
	require.NoError(t, err)
	assert.Equal(t, frame.KindNumeric, col.Kind)
	assert.Equal(t, 12.5, col.Numbers[0])
	assert.True(t, math.IsNaN(col.Numbers[1]), "Filtered must read as missing")
	assert.True(t, math.IsNaN(col.Numbers[2]), "NaN must read as missing")
}

func TestBuildFrame_MissingRequiredColumn(t *testing.T) {
	rows := [][]string{
		{"PG.ProteinGroups", "PG.Genes"},
		{"P1", "GENEA"},
	}
	_, err := BuildFrame(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EG.IsDecoy")
}

func TestBuildFrame_BadDecoyFlag(t *testing.T) {
	rows := records()
	rows[1][3] = "maybe"
	_, err := BuildFrame(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoy")
}

func TestBuildFrame_ShortRowsPadAsMissing(t *testing.T) {
	rows := [][]string{
		{"PG.ProteinGroups", "PG.Genes", "PG.Organisms", "EG.IsDecoy", "CellLine1.vehicle.1_ProteinQuant"},
		{"P1", "GENEA", "Homo sapiens", "False"},
	}
	f, err := BuildFrame(rows)
	require.NoError(t, err)

	values, err := f.Numbers("CellLine1.vehicle.1_ProteinQuant")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(values[0]))
}
