package impute

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diaquant/domain/core"
	"diaquant/domain/frame"
)

// incompleteFrame builds three correlated numeric columns with missing
// cells in two of them.
func incompleteFrame(t *testing.T) *frame.Frame {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	n := 60
	a := make([]float64, n)
	b := make([]float64, n)
	c := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = 10 + rng.NormFloat64()
		b[i] = 2*a[i] + rng.NormFloat64()*0.3
		c[i] = a[i] - 5 + rng.NormFloat64()*0.3
	}
	for i := 0; i < n; i += 7 {
		b[i] = math.NaN()
	}
	for i := 3; i < n; i += 11 {
		c[i] = math.NaN()
	}
	f, err := frame.New(
		frame.NumericColumn("a", a),
		frame.NumericColumn("b", b),
		frame.NumericColumn("c", c),
	)
	require.NoError(t, err)
	return f
}

func testOptions(seed int64) Options {
	return Options{Iterations: 5, Chains: 3, Donors: 5, Seed: seed}
}

func TestImpute_SameSeedIsDeterministic(t *testing.T) {
	f := incompleteFrame(t)
	cols := []string{"a", "b", "c"}

	first, err := Impute(f, cols, testOptions(42))
	require.NoError(t, err)
	second, err := Impute(f, cols, testOptions(42))
	require.NoError(t, err)

	for _, name := range cols {
		v1, err := first.Numbers(name)
		require.NoError(t, err)
		v2, err := second.Numbers(name)
		require.NoError(t, err)
		assert.Equal(t, v1, v2, "column %s must be byte-identical across runs", name)
	}
}

func TestImpute_NoMissingValuesRemain(t *testing.T) {
	f := incompleteFrame(t)
	cols := []string{"a", "b", "c"}

	for _, seed := range []int64{1, 2, 99} {
		out, err := Impute(f, cols, testOptions(seed))
		require.NoError(t, err)
		for _, name := range cols {
			values, err := out.Numbers(name)
			require.NoError(t, err)
			for i, v := range values {
				assert.False(t, math.IsNaN(v), "seed %d column %s row %d still missing", seed, name, i)
			}
		}
	}
}

func TestImpute_ValuesComeFromObservedDonors(t *testing.T) {
	f := incompleteFrame(t)
	out, err := Impute(f, []string{"a", "b", "c"}, testOptions(3))
	require.NoError(t, err)

	// Predictive mean matching fills from observed values only.
	orig, err := f.Numbers("b")
	require.NoError(t, err)
	observed := make(map[float64]bool)
	for _, v := range orig {
		if !math.IsNaN(v) {
			observed[v] = true
		}
	}
	filled, err := out.Numbers("b")
	require.NoError(t, err)
	for i, v := range orig {
		if math.IsNaN(v) {
			assert.True(t, observed[filled[i]], "row %d filled with non-donor value %v", i, filled[i])
		}
	}
}

func TestImpute_InputFrameUntouched(t *testing.T) {
	f := incompleteFrame(t)
	before, err := f.Numbers("b")
	require.NoError(t, err)
	missingBefore := 0
	for _, v := range before {
		if math.IsNaN(v) {
			missingBefore++
		}
	}

	_, err = Impute(f, []string{"a", "b", "c"}, testOptions(5))
	require.NoError(t, err)

	after, err := f.Numbers("b")
	require.NoError(t, err)
	missingAfter := 0
	for _, v := range after {
		if math.IsNaN(v) {
			missingAfter++
		}
	}
	assert.Equal(t, missingBefore, missingAfter)
}

func TestImpute_AllMissingColumnFails(t *testing.T) {
	empty := make([]float64, 10)
	full := make([]float64, 10)
	for i := range empty {
		empty[i] = math.NaN()
		full[i] = float64(i)
	}
	f, err := frame.New(
		frame.NumericColumn("full", full),
		frame.NumericColumn("void", empty),
	)
	require.NoError(t, err)

	_, err = Impute(f, []string{"full", "void"}, testOptions(1))
	assert.ErrorIs(t, err, core.ErrNoObservedData)
}

func TestImpute_NonTargetColumnsUntouched(t *testing.T) {
	f := incompleteFrame(t)
	out, err := Impute(f, []string{"b"}, testOptions(8))
	require.NoError(t, err)

	origC, err := f.Numbers("c")
	require.NoError(t, err)
	outC, err := out.Numbers("c")
	require.NoError(t, err)
	for i := range origC {
		if math.IsNaN(origC[i]) {
			assert.True(t, math.IsNaN(outC[i]), "non-target missing cell %d was filled", i)
		} else {
			assert.Equal(t, origC[i], outC[i])
		}
	}
}

func TestImpute_MeanPooling(t *testing.T) {
	f := incompleteFrame(t)
	opts := testOptions(4)
	opts.PoolMean = true

	out, err := Impute(f, []string{"a", "b", "c"}, opts)
	require.NoError(t, err)
	values, err := out.Numbers("b")
	require.NoError(t, err)
	for _, v := range values {
		assert.False(t, math.IsNaN(v))
	}
}
