// Package roughness computes terrain-roughness surfaces from elevation
// rasters, classifies them into discrete categories, scores a
// classification against a reference labeling, and searches for the
// category breakpoints maximizing that score.
//
// The package is the compute core only: loaders hand it elevation bands
// with pixel-size metadata, and savers/previewers consume the grids it
// returns. It performs no logging and holds no process-wide state; every
// parameter arrives in an explicit Params record.
package roughness

import "fmt"

// Defaults mirror the common field survey setup: 1 m windows over
// sub-metre DEMs, anything rougher than 10 m of in-window relief
// treated as a data artifact.
const (
	DefaultWindowSizeMeters   = 1.0
	DefaultBandNumber         = 1
	DefaultHighValueThreshold = 10.0
)

// Params is the full configuration surface of one pipeline invocation.
type Params struct {
	WindowSizeMeters   float64
	BandNumber         int
	HighValueThreshold float64
	CategoryThresholds ThresholdSet // optional; nil skips classification
	OptimizationBudget int          // optional; candidate count for Optimize
	MaskZero           bool         // mask exactly-zero roughness (flat water, void fill)
}

// DefaultParams returns the defaults; callers override fields as needed.
func DefaultParams() Params {
	return Params{
		WindowSizeMeters:   DefaultWindowSizeMeters,
		BandNumber:         DefaultBandNumber,
		HighValueThreshold: DefaultHighValueThreshold,
	}
}

func (p Params) check() error {
	if p.WindowSizeMeters <= 0 {
		return fmt.Errorf("%w: %g m", ErrInvalidWindowSize, p.WindowSizeMeters)
	}
	if p.BandNumber < 1 {
		return fmt.Errorf("%w: band %d", ErrInvalidBandIndex, p.BandNumber)
	}
	if p.HighValueThreshold <= 0 {
		return fmt.Errorf("%w: high-value threshold %g", ErrInvalidThresholds, p.HighValueThreshold)
	}
	if p.CategoryThresholds != nil {
		return p.CategoryThresholds.Check()
	}
	return nil
}

// Result bundles the grids of one Process call.
type Result struct {
	Roughness  *RoughnessGrid
	Classified *ClassifiedGrid // nil unless thresholds were supplied
}

// Process runs the elevation -> roughness -> classification pipeline on
// one band of a source stack. Either every output grid is fully
// populated or an error is returned; never a partially computed grid.
func Process(src *Stack, p Params) (*Result, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	dem, err := src.Band(p.BandNumber)
	if err != nil {
		return nil, err
	}
	rg, err := ComputeRoughness(dem, WindowSpec{Meters: p.WindowSizeMeters}, p.HighValueThreshold)
	if err != nil {
		return nil, err
	}
	if p.MaskZero {
		for i, v := range rg.V {
			if rg.Ok[i] && v == 0. {
				rg.Ok[i] = false
			}
		}
	}
	res := &Result{Roughness: rg}
	if p.CategoryThresholds != nil {
		if res.Classified, err = Classify(rg, p.CategoryThresholds); err != nil {
			return nil, err
		}
	}
	return res, nil
}
