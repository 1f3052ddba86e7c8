package roughness

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func roughFromValues(nr, nc int, v []float64) *RoughnessGrid {
	rg := newRoughnessGrid(nr, nc, 1, 1)
	copy(rg.V, v)
	for i := range rg.Ok {
		rg.Ok[i] = true
	}
	return rg
}

func TestClassifyScenario(t *testing.T) {
	rg := roughFromValues(1, 4, []float64{.05, .15, .25, .35})
	cg, err := Classify(rg, ThresholdSet{.1, .2, .3})
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 2, 3}, cg.C)
}

func TestClassifyHalfOpenIntervals(t *testing.T) {
	// [t1,t2) is closed below: a value on a breakpoint belongs above it
	rg := roughFromValues(1, 3, []float64{.1, .2, .3})
	cg, err := Classify(rg, ThresholdSet{.1, .2, .3})
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3}, cg.C)
}

func TestClassifyEmptyThresholds(t *testing.T) {
	rg := roughFromValues(2, 2, []float64{.1, 5, 0, 99})
	rg.Ok[2] = false
	cg, err := Classify(rg, nil)
	require.NoError(t, err)
	require.Equal(t, []int32{0, 0, NoCategory, 0}, cg.C)
	require.Equal(t, []bool{true, true, false, true}, cg.Ok)
}

func TestClassifyRejectsBadThresholds(t *testing.T) {
	rg := roughFromValues(1, 1, []float64{.5})
	for _, bad := range []ThresholdSet{
		{.2, .1},
		{.1, .1},
	} {
		_, err := Classify(rg, bad)
		require.ErrorIs(t, err, ErrInvalidThresholds)
	}
}

func TestClassifyMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ts := ThresholdSet{.1, .25, .4, .77}
	for range 1000 {
		v1, v2 := rng.Float64(), rng.Float64()
		if v1 > v2 {
			v1, v2 = v2, v1
		}
		require.LessOrEqual(t, ts.category(v1), ts.category(v2))
	}
}

func TestClassifyLeavesInputUntouched(t *testing.T) {
	rg := roughFromValues(1, 3, []float64{.1, .2, .3})
	before := append([]float64(nil), rg.V...)
	_, err := Classify(rg, ThresholdSet{.15})
	require.NoError(t, err)
	require.Equal(t, before, rg.V)
}
