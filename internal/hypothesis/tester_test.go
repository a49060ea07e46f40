package hypothesis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diaquant/domain/core"
	"diaquant/domain/sample"
	"diaquant/internal/reshape"
)

// obs is shorthand for a ProteinQuant observation.
func obs(entity, cellLine string, condition sample.Condition, replicate int, value float64) reshape.Observation {
	return reshape.Observation{
		Entity:    core.EntityID(entity),
		CellLine:  cellLine,
		Condition: condition,
		Replicate: replicate,
		Metric:    sample.ProteinQuant,
		Value:     value,
	}
}

func balancedObservations() []reshape.Observation {
	var out []reshape.Observation
	// One cell line, one replicate, three entities, four values per side.
	vehicle := []float64{10, 11, 10.5, 9.8}
	treat := []float64{15, 16, 15.5, 14.9}
	for e, entity := range []string{"A", "B", "C"} {
		for i := range vehicle {
			out = append(out, obs(entity, "CellLine1", sample.Vehicle, 1, vehicle[i]+float64(e)))
			out = append(out, obs(entity, "CellLine1", sample.Treat, 1, treat[i]+float64(e)))
		}
	}
	return out
}

func TestSummarize_GroupStatistics(t *testing.T) {
	summaries := Summarize(balancedObservations())
	require.Len(t, summaries, 2) // vehicle and treat for one cell line

	assert.Equal(t, sample.Vehicle, summaries[0].Condition)
	assert.Equal(t, 12, summaries[0].Count)
	assert.Equal(t, sample.Treat, summaries[1].Condition)
	assert.Greater(t, summaries[1].Mean, summaries[0].Mean)
	assert.LessOrEqual(t, summaries[0].Min, summaries[0].Median)
	assert.LessOrEqual(t, summaries[0].Median, summaries[0].Max)
}

func TestSummarize_IgnoresMissingValues(t *testing.T) {
	input := balancedObservations()
	input = append(input, obs("A", "CellLine1", sample.Vehicle, 1, math.NaN()))

	withNaN := Summarize(input)
	without := Summarize(balancedObservations())
	assert.Equal(t, without, withNaN)
}

func TestCompareReplicates_BothTestKinds(t *testing.T) {
	cmp := CompareReplicates(balancedObservations())
	require.Len(t, cmp.Results, 2)
	assert.Empty(t, cmp.Skipped)

	assert.Equal(t, TestTTest, cmp.Results[0].Kind)
	assert.Equal(t, TestWilcoxon, cmp.Results[1].Kind)
	assert.Equal(t, cmp.Results[0].NVehicle, cmp.Results[1].NVehicle)
	// Clearly shifted groups: both tests see it.
	assert.Less(t, cmp.Results[0].PValue, 0.05)
	assert.Less(t, cmp.Results[1].PValue, 0.05)
}

func TestCompareReplicates_SkipsSmallGroups(t *testing.T) {
	input := []reshape.Observation{
		obs("A", "CellLine1", sample.Vehicle, 1, 10),
		obs("A", "CellLine1", sample.Treat, 1, 11),
		obs("B", "CellLine1", sample.Treat, 1, 12),
	}
	cmp := CompareReplicates(input)
	assert.Empty(t, cmp.Results)
	require.Len(t, cmp.Skipped, 1)
	assert.Contains(t, cmp.Skipped[0].Reason.Error(), "fewer than 2")
}

func TestCompareEntities_SignificanceIsStrict(t *testing.T) {
	input := balancedObservations()
	cmp := CompareEntities(input, 0.05)
	require.NotEmpty(t, cmp.Results)

	for _, r := range cmp.Results {
		assert.Equal(t, r.PValue < 0.05, r.Significant)
	}

	// Re-running with alpha equal to a computed p-value flips that entity
	// to not significant: the threshold is strictly less-than.
	alpha := cmp.Results[0].PValue
	again := CompareEntities(input, alpha)
	for _, r := range again.Results {
		if r.PValue == alpha {
			assert.False(t, r.Significant)
		}
	}
}

func TestCompareEntities_SkipsSparse(t *testing.T) {
	input := []reshape.Observation{
		obs("A", "CellLine1", sample.Vehicle, 1, 10),
		obs("A", "CellLine1", sample.Treat, 1, 11),
	}
	cmp := CompareEntities(input, 0.05)
	assert.Empty(t, cmp.Results)
	assert.Len(t, cmp.Skipped, 1)
}
