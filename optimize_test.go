package roughness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// separable fixture: low block labeled 0, high block labeled 1; any
// breakpoint in (0.1, 0.4] classifies it perfectly
func separable() (*RoughnessGrid, *ClassifiedGrid) {
	v := make([]float64, 8*8)
	c := make([]int32, 8*8)
	for i := range v {
		if i < 32 {
			v[i] = .1
		} else {
			v[i], c[i] = .4, 1
		}
	}
	return roughFromValues(8, 8, v), classifiedFromCodes(8, 8, c)
}

func TestOptimizeForcedCandidate(t *testing.T) {
	rg, ref := separable()
	forced := ThresholdSet{.3}

	res, err := Optimize(context.Background(), rg, ref, OptimizeSpec{
		CandidateCount: 1,
		NumThresholds:  1,
		Min:            0, Max: 1,
		Seeds: []ThresholdSet{forced},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Evaluated)
	require.Equal(t, forced, res.Thresholds)

	cg, err := Classify(rg, forced)
	require.NoError(t, err)
	direct, err := Evaluate(cg, ref, nil)
	require.NoError(t, err)
	require.Equal(t, direct.Score, res.Report.Score)
	require.Equal(t, direct.Confusion.Cnt, res.Report.Confusion.Cnt)
}

func TestOptimizeFindsSeparation(t *testing.T) {
	rg, ref := separable()
	res, err := Optimize(context.Background(), rg, ref, OptimizeSpec{
		CandidateCount: 200,
		NumThresholds:  1,
		Min:            0, Max: 1,
		Seed: 12345,
	})
	require.NoError(t, err)
	require.Equal(t, 200, res.Evaluated)
	require.Equal(t, 1., res.Report.Score)
	require.Len(t, res.Thresholds, 1)
	require.Greater(t, res.Thresholds[0], .1)
	require.LessOrEqual(t, res.Thresholds[0], .4)
}

func TestOptimizeExhausted(t *testing.T) {
	rg, ref := separable()
	_, err := Optimize(context.Background(), rg, ref, OptimizeSpec{
		CandidateCount: 1,
		NumThresholds:  2,
		Min:            0, Max: 1,
		Seeds: []ThresholdSet{{.5, .5}}, // not strictly increasing, never evaluated
	})
	require.ErrorIs(t, err, ErrOptimizationExhausted)
}

func TestOptimizeSpecChecks(t *testing.T) {
	rg, ref := separable()

	_, err := Optimize(context.Background(), rg, ref, OptimizeSpec{CandidateCount: 0, NumThresholds: 1, Min: 0, Max: 1})
	require.ErrorIs(t, err, ErrOptimizationExhausted)

	_, err = Optimize(context.Background(), rg, ref, OptimizeSpec{CandidateCount: 1, NumThresholds: 0, Min: 0, Max: 1})
	require.ErrorIs(t, err, ErrInvalidThresholds)

	_, err = Optimize(context.Background(), rg, ref, OptimizeSpec{CandidateCount: 1, NumThresholds: 1, Min: 1, Max: 1})
	require.ErrorIs(t, err, ErrInvalidThresholds)

	short := classifiedFromCodes(2, 2, []int32{0, 1, 0, 1})
	_, err = Optimize(context.Background(), rg, short, OptimizeSpec{CandidateCount: 1, NumThresholds: 1, Min: 0, Max: 1})
	require.ErrorIs(t, err, ErrIncompatibleGrids)
}

func TestOptimizeCancelled(t *testing.T) {
	rg, ref := separable()
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancellation lands before the first Generate step

	_, err := Optimize(ctx, rg, ref, OptimizeSpec{
		CandidateCount: 100,
		NumThresholds:  1,
		Min:            0, Max: 1,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOptimizeTieBreaksEarliest(t *testing.T) {
	rg, ref := separable()
	// both seeds classify perfectly; the first generated must win
	res, err := Optimize(context.Background(), rg, ref, OptimizeSpec{
		CandidateCount: 2,
		NumThresholds:  1,
		Min:            0, Max: 1,
		Seeds:   []ThresholdSet{{.2}, {.3}},
		Workers: 4,
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Evaluated)
	require.Equal(t, ThresholdSet{.2}, res.Thresholds)
}

func TestOptimizeSCE(t *testing.T) {
	rg, ref := separable()
	res, err := OptimizeSCE(rg, ref, OptimizeSpec{
		NumThresholds: 1,
		Min:           0, Max: 1,
		Seed: 99,
	})
	require.NoError(t, err)
	require.Positive(t, res.Evaluated)
	require.Equal(t, 1., res.Report.Score)
}
