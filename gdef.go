package roughness

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// GridDef is a uniform-cell grid definition: origin, rotation, extent
// and cell size, as read from a .gdef header.
type GridDef struct {
	Eorig, Norig, Rot, Cs float64
	Nr, Nc                int
}

// ReadGDEF imports a grid definition file: origin easting and northing,
// rotation, row and column counts, and a (possibly 'U'-prefixed,
// uniform) cell size, one value per line.
func ReadGDEF(fp string) (*GridDef, error) {
	a, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("gdef %s: %v", fp, err)
	}
	if len(a) < 6 {
		return nil, fmt.Errorf("gdef %s: %d header lines, want 6", fp, len(a))
	}
	pf := func(s, nam string) (float64, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0., fmt.Errorf("gdef %s: failed to read %s: %v", fp, nam, err)
		}
		return v, nil
	}
	oe, err := pf(a[0], "OE")
	if err != nil {
		return nil, err
	}
	on, err := pf(a[1], "ON")
	if err != nil {
		return nil, err
	}
	rot, err := pf(a[2], "ROT")
	if err != nil {
		return nil, err
	}
	nr, err := strconv.ParseInt(strings.TrimSpace(a[3]), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("gdef %s: failed to read NR: %v", fp, err)
	}
	nc, err := strconv.ParseInt(strings.TrimSpace(a[4]), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("gdef %s: failed to read NC: %v", fp, err)
	}
	scs := strings.TrimSpace(a[5])
	scs = strings.TrimPrefix(scs, "U") // uniform cell size flag
	cs, err := pf(scs, "CS")
	if err != nil {
		return nil, err
	}
	if nr < 1 || nc < 1 || cs <= 0 {
		return nil, fmt.Errorf("gdef %s: degenerate definition %d x %d at %g", fp, nr, nc, cs)
	}
	return &GridDef{Eorig: oe, Norig: on, Rot: rot, Cs: cs, Nr: int(nr), Nc: int(nc)}, nil
}

// LoadStackBIL reads a band-sequential little-endian float32 raster over
// the definition gd. The band count is taken from the file length; a
// file holding no complete band is an ErrInvalidBandIndex.
func LoadStackBIL(fp string, gd *GridDef, noData float64) (*Stack, error) {
	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("LoadStackBIL %s: %v", fp, err)
	}
	ncell := gd.Nr * gd.Nc
	nband := len(b) / (4 * ncell)
	if nband < 1 {
		return nil, fmt.Errorf("%w: %s holds %d bytes, less than one %d-cell band", ErrInvalidBandIndex, fp, len(b), ncell)
	}
	if len(b) != 4*ncell*nband {
		return nil, fmt.Errorf("LoadStackBIL %s: %d bytes is not a whole number of %d-cell bands", fp, len(b), ncell)
	}
	s := &Stack{Nr: gd.Nr, Nc: gd.Nc, Rx: gd.Cs, Ry: gd.Cs, NoData: noData, Bands: make([][]float64, nband)}
	for ib := range nband {
		z := make([]float64, ncell)
		for i := range ncell {
			bits := binary.LittleEndian.Uint32(b[4*(ib*ncell+i):])
			z[i] = float64(math.Float32frombits(bits))
		}
		s.Bands[ib] = z
	}
	return s, nil
}

// LoadClassifiedBIL reads a single-band little-endian int32 category
// raster over gd; codes below zero are masked.
func LoadClassifiedBIL(fp string, gd *GridDef) (*ClassifiedGrid, error) {
	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("LoadClassifiedBIL %s: %v", fp, err)
	}
	ncell := gd.Nr * gd.Nc
	if len(b) != 4*ncell {
		return nil, fmt.Errorf("%w: %s holds %d bytes, want %d", ErrIncompatibleGrids, fp, len(b), 4*ncell)
	}
	cg := newClassifiedGrid(gd.Nr, gd.Nc)
	for i := range ncell {
		c := int32(binary.LittleEndian.Uint32(b[4*i:]))
		if c >= 0 {
			cg.C[i] = c
			cg.Ok[i] = true
		}
	}
	return cg, nil
}
