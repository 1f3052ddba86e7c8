package roughness

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindowSpecRadii(t *testing.T) {
	// 3 m window over 1 m pixels: 3x3 neighbourhood
	rx, ry, err := WindowSpec{Meters: 3}.radii(1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, rx)
	require.Equal(t, 1, ry)

	// 1 m window over 0.25 m pixels: 4 -> radius 2 (5x5, always odd)
	rx, ry, err = WindowSpec{Meters: 1}.radii(.25, .25)
	require.NoError(t, err)
	require.Equal(t, 2, rx)
	require.Equal(t, 2, ry)

	// anisotropic pixels resolve per axis
	rx, ry, err = WindowSpec{Meters: 3}.radii(1, .5)
	require.NoError(t, err)
	require.Equal(t, 1, rx)
	require.Equal(t, 3, ry)

	// window smaller than one pixel
	_, _, err = WindowSpec{Meters: 1}.radii(1, 1)
	require.ErrorIs(t, err, ErrInvalidWindowSize)
	_, _, err = WindowSpec{Meters: 0}.radii(1, 1)
	require.ErrorIs(t, err, ErrInvalidWindowSize)
}

func TestStackBand(t *testing.T) {
	s := &Stack{
		Nr: 2, Nc: 2, Rx: 1, Ry: 1, NoData: -9999,
		Bands: [][]float64{
			{1, 2, 3, 4},
			{5, -9999, 7, math.NaN()},
		},
	}

	eg, err := s.Band(2)
	require.NoError(t, err)
	require.Equal(t, 2, eg.Band)
	require.Equal(t, []bool{true, false, true, false}, eg.Ok)

	_, err = s.Band(0)
	require.ErrorIs(t, err, ErrInvalidBandIndex)
	_, err = s.Band(3)
	require.ErrorIs(t, err, ErrInvalidBandIndex)

	empty := &Stack{Nr: 2, Nc: 2}
	_, err = empty.Band(1)
	require.ErrorIs(t, err, ErrInvalidBandIndex)
}

func TestProcessParamChecks(t *testing.T) {
	s := &Stack{Nr: 2, Nc: 2, Rx: 1, Ry: 1, NoData: -9999, Bands: [][]float64{{1, 2, 3, 4}}}

	p := DefaultParams()
	p.BandNumber = 0
	_, err := Process(s, p)
	require.ErrorIs(t, err, ErrInvalidBandIndex)

	p = DefaultParams()
	p.WindowSizeMeters = -1
	_, err = Process(s, p)
	require.ErrorIs(t, err, ErrInvalidWindowSize)

	p = DefaultParams()
	p.CategoryThresholds = ThresholdSet{.2, .1}
	_, err = Process(s, p)
	require.True(t, errors.Is(err, ErrInvalidThresholds))
}
