package roughness

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ComputeRoughness maps an elevation band to a same-shape grid of
// windowed population standard deviations. Border cells whose window
// would extend past the grid edge are masked rather than computed from
// a partial window (edge windows overstate variance); windows with
// fewer than two valid samples are masked; computed values above
// highValueThreshold are masked as artifacts, not clipped.
func ComputeRoughness(dem *ElevationGrid, w WindowSpec, highValueThreshold float64) (*RoughnessGrid, error) {
	if dem == nil || dem.Nr < 1 || dem.Nc < 1 || len(dem.Z) != dem.Nr*dem.Nc || len(dem.Ok) != dem.Nr*dem.Nc {
		return nil, fmt.Errorf("%w: malformed elevation grid", ErrIncompatibleGrids)
	}
	radx, rady, err := w.radii(dem.Rx, dem.Ry)
	if err != nil {
		return nil, err
	}

	rg := newRoughnessGrid(dem.Nr, dem.Nc, dem.Rx, dem.Ry)
	if 2*rady+1 > dem.Nr || 2*radx+1 > dem.Nc {
		return rg, nil // window larger than grid, all border
	}

	computeRows(dem, rg, radx, rady, highValueThreshold)
	return rg, nil
}

// cellStat gathers the valid window samples about (row,col) into buf and
// returns their population standard deviation.
func cellStat(dem *ElevationGrid, row, col, radx, rady int, buf []float64) ([]float64, float64, bool) {
	buf = buf[:0]
	for r := row - rady; r <= row+rady; r++ {
		o := r * dem.Nc
		for c := col - radx; c <= col+radx; c++ {
			if dem.Ok[o+c] {
				buf = append(buf, dem.Z[o+c])
			}
		}
	}
	if len(buf) < 2 {
		return buf, 0., false
	}
	return buf, stat.PopStdDev(buf, nil), true
}
