package roughness

import (
	"fmt"
	"math"
)

// NoCategory is the reserved code written to masked cells of a
// ClassifiedGrid. Cell validity is always carried by the Ok mask; the
// code is only there so exported rasters have a recognizable fill.
const NoCategory int32 = -1

// Stack is a multi-band elevation source as handed over by a loader
// collaborator: band-sequential row-major samples over a common
// definition. NoData samples are identified by value here and converted
// to an explicit mask on band extraction.
type Stack struct {
	Nr, Nc int
	Rx, Ry float64 // pixel size (grid linear unit)
	NoData float64
	Bands  [][]float64
}

// Band extracts the 1-based band b as an ElevationGrid, mapping NoData
// samples to the validity mask.
func (s *Stack) Band(b int) (*ElevationGrid, error) {
	if len(s.Bands) == 0 {
		return nil, fmt.Errorf("%w: source holds no bands", ErrInvalidBandIndex)
	}
	if b < 1 || b > len(s.Bands) {
		return nil, fmt.Errorf("%w: band %d of %d", ErrInvalidBandIndex, b, len(s.Bands))
	}
	z := s.Bands[b-1]
	if len(z) != s.Nr*s.Nc {
		return nil, fmt.Errorf("%w: band %d holds %d samples, want %d", ErrIncompatibleGrids, b, len(z), s.Nr*s.Nc)
	}
	eg := &ElevationGrid{
		Nr: s.Nr, Nc: s.Nc,
		Rx: s.Rx, Ry: s.Ry,
		Band: b,
		Z:    z,
		Ok:   make([]bool, len(z)),
	}
	for i, v := range z {
		eg.Ok[i] = v != s.NoData && !math.IsNaN(v)
	}
	return eg, nil
}

// ElevationGrid is a single band of height samples with georeferencing
// metadata. Treated as immutable once produced.
type ElevationGrid struct {
	Nr, Nc int
	Rx, Ry float64
	Band   int
	Z      []float64
	Ok     []bool
}

// NewElevationGrid builds a fully valid grid; used by callers that
// assemble elevations in memory rather than from a banded source.
func NewElevationGrid(nr, nc int, rx, ry float64, z []float64) (*ElevationGrid, error) {
	if nr < 1 || nc < 1 || len(z) != nr*nc {
		return nil, fmt.Errorf("%w: %d x %d grid with %d samples", ErrIncompatibleGrids, nr, nc, len(z))
	}
	ok := make([]bool, nr*nc)
	for i := range ok {
		ok[i] = !math.IsNaN(z[i])
	}
	return &ElevationGrid{Nr: nr, Nc: nc, Rx: rx, Ry: ry, Band: 1, Z: z, Ok: ok}, nil
}

// WindowSpec is a physical square window side length.
type WindowSpec struct {
	Meters float64
}

// radii converts the physical side length to per-axis pixel radii. The
// window spans 2r+1 pixels per axis so it is always odd and centred;
// the conversion depends only on (meters, pixel size), keeping repeated
// runs deterministic.
func (w WindowSpec) radii(rx, ry float64) (int, int, error) {
	if w.Meters <= 0 || rx <= 0 || ry <= 0 {
		return 0, 0, fmt.Errorf("%w: %g m window over %g x %g pixels", ErrInvalidWindowSize, w.Meters, rx, ry)
	}
	nx := int(math.Round(w.Meters / rx))
	ny := int(math.Round(w.Meters / ry))
	if nx/2 < 1 || ny/2 < 1 {
		return 0, 0, fmt.Errorf("%w: %g m window yields pixel radius 0 at %g x %g resolution", ErrInvalidWindowSize, w.Meters, rx, ry)
	}
	return nx / 2, ny / 2, nil
}

// RoughnessGrid holds per-cell windowed standard deviations over the
// same definition as its source elevations. Masked cells are border or
// filtered-high-value exclusions.
type RoughnessGrid struct {
	Nr, Nc int
	Rx, Ry float64
	V      []float64
	Ok     []bool
}

func newRoughnessGrid(nr, nc int, rx, ry float64) *RoughnessGrid {
	return &RoughnessGrid{
		Nr: nr, Nc: nc, Rx: rx, Ry: ry,
		V:  make([]float64, nr*nc),
		Ok: make([]bool, nr*nc),
	}
}

// ClassifiedGrid is an integer category raster; masked cells carry
// NoCategory.
type ClassifiedGrid struct {
	Nr, Nc int
	C      []int32
	Ok     []bool
}

func newClassifiedGrid(nr, nc int) *ClassifiedGrid {
	cg := &ClassifiedGrid{Nr: nr, Nc: nc, C: make([]int32, nr*nc), Ok: make([]bool, nr*nc)}
	for i := range cg.C {
		cg.C[i] = NoCategory
	}
	return cg
}

func sameShape(nr0, nc0, nr1, nc1 int) bool { return nr0 == nr1 && nc0 == nc1 }
