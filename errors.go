package roughness

import "errors"

// Precondition violations raised synchronously at the call site; nothing
// in this package retries internally and no partial grids are returned.
var (
	// ErrInvalidWindowSize indicates the physical window converts to a
	// pixel radius of zero (window smaller than one pixel).
	ErrInvalidWindowSize = errors.New("roughness: invalid window size")

	// ErrInvalidBandIndex indicates a band request outside the source
	// stack, or a source with no bands at all.
	ErrInvalidBandIndex = errors.New("roughness: invalid band index")

	// ErrInvalidThresholds indicates a breakpoint set that is not
	// strictly increasing (or contains NaN).
	ErrInvalidThresholds = errors.New("roughness: invalid thresholds")

	// ErrIncompatibleGrids indicates two grids of differing shape were
	// passed to an operation requiring cell-for-cell correspondence.
	ErrIncompatibleGrids = errors.New("roughness: incompatible grids")

	// ErrOptimizationExhausted indicates the optimizer finished its
	// budget without a single valid candidate evaluation.
	ErrOptimizationExhausted = errors.New("roughness: optimization exhausted")
)
