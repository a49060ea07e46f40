package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diaquant/domain/core"
	"diaquant/domain/dataset"
	"diaquant/domain/frame"
	"diaquant/internal/config"
	"diaquant/internal/testkit"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	// Keep the chained-equations run short for tests.
	cfg.Analysis.ImputeIterations = 3
	cfg.Analysis.ImputeChains = 2
	cfg.Analysis.KMeansRestarts = 5
	return cfg
}

func TestRun_FullPipeline(t *testing.T) {
	raw := testkit.SyntheticFrame(testkit.DefaultSpec(42))
	res, err := New(testConfig(), nil).Run(raw)
	require.NoError(t, err)

	assert.False(t, res.RunID.String() == "")

	// Decoys are gone after cleansing.
	decoys, err := res.Cleaned.Bools(dataset.ColIsDecoy)
	require.NoError(t, err)
	for _, d := range decoys {
		assert.False(t, d)
	}

	// Imputed bucket columns carry no missing values.
	for _, name := range res.MissingProfile.Imputable() {
		values, err := res.Imputed.Numbers(name)
		require.NoError(t, err)
		for _, v := range values {
			assert.False(t, math.IsNaN(v), "column %s still missing values", name)
		}
	}

	// Long form: rows x matched sample columns.
	expected := res.Imputed.NumRows() * len(res.Long.MatchedKeys)
	assert.Len(t, res.Long.Observations, expected)

	// 2 cell lines x 2 conditions.
	assert.Len(t, res.Summaries, 4)
	assert.NotEmpty(t, res.ReplicateTests.Results)
	assert.NotEmpty(t, res.EntityTests.Results)

	require.NoError(t, res.ClusterErr)
	require.NotNil(t, res.Clusters)
	assert.NotEmpty(t, res.Clusters.Assignments)
}

func TestRun_EmptyInput(t *testing.T) {
	f, err := frame.New(
		frame.StringColumn(dataset.ColProteinGroups, nil),
		frame.BoolColumn(dataset.ColIsDecoy, nil),
	)
	require.NoError(t, err)

	_, err = New(testConfig(), nil).Run(f)
	assert.ErrorIs(t, err, core.ErrEmptyFrame)
}

func TestRun_ClusteringFailureIsStageLocal(t *testing.T) {
	raw := testkit.SyntheticFrame(testkit.Spec{
		Proteins:   6,
		CellLines:  []string{"CellLine1"},
		Replicates: 2,
		Seed:       7,
		TreatShift: 1,
	})

	cfg := testConfig()
	cfg.Analysis.KMeansClusters = 50 // more clusters than entities

	res, err := New(cfg, nil).Run(raw)
	require.NoError(t, err)
	assert.Nil(t, res.Clusters)
	assert.ErrorIs(t, res.ClusterErr, core.ErrDegenerateClusterRequest)
	// Upstream results are still present.
	assert.NotEmpty(t, res.EntityTests.Results)
}

func TestRun_DeterministicAcrossRuns(t *testing.T) {
	raw := testkit.SyntheticFrame(testkit.DefaultSpec(11))
	cfg := testConfig()

	a, err := New(cfg, nil).Run(raw)
	require.NoError(t, err)
	b, err := New(cfg, nil).Run(raw)
	require.NoError(t, err)

	require.NotNil(t, a.Clusters)
	require.NotNil(t, b.Clusters)
	assert.Equal(t, a.Clusters.Inertia, b.Clusters.Inertia)
	assert.Equal(t, a.EntityTests.Results, b.EntityTests.Results)
}
