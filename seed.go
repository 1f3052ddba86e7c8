package roughness

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// nudge applied when a neighbouring category holds no samples and a
// breakpoint must be extrapolated rather than bracketed.
const categoryIncrement = 0.1

// SeedThresholds derives an initial breakpoint set from a reference
// labeling: for each adjacent category pair the breakpoint is the
// midpoint between the 95th percentile of the lower category's roughness
// values and the 5th percentile of the upper's. Breakpoints whose
// bracketing categories hold no samples are interpolated from their
// nearest computed neighbours. The result suits OptimizeSpec.Seeds.
func SeedThresholds(rg *RoughnessGrid, ref *ClassifiedGrid, ncat int) (ThresholdSet, error) {
	if ncat < 2 {
		return nil, fmt.Errorf("%w: %d categories, need at least 2 to seed", ErrInvalidThresholds, ncat)
	}
	if rg == nil || ref == nil || !sameShape(rg.Nr, rg.Nc, ref.Nr, ref.Nc) {
		return nil, fmt.Errorf("%w: roughness and reference shapes differ", ErrIncompatibleGrids)
	}

	// per-category roughness samples, sorted for quantiles
	vals := make([][]float64, ncat)
	for i := range rg.V {
		if !rg.Ok[i] || !ref.Ok[i] {
			continue
		}
		c := int(ref.C[i])
		if c < 0 || c >= ncat {
			continue // label outside the expected range
		}
		vals[c] = append(vals[c], rg.V[i])
	}
	any := false
	for c := range vals {
		sort.Float64s(vals[c])
		any = any || len(vals[c]) > 0
	}
	if !any {
		return nil, fmt.Errorf("%w: no scored cells to seed from", ErrIncompatibleGrids)
	}

	const unset = -1.
	t := make(ThresholdSet, ncat-1)
	for i := range t {
		t[i] = unset
	}

	q := func(c int, p float64) float64 { return stat.Quantile(p, stat.Empirical, vals[c], nil) }

	switch {
	case len(vals[0]) > 0 && len(vals[1]) > 0:
		t[0] = (q(0, .95) + q(1, .05)) / 2.
	case len(vals[0]) > 0:
		t[0] = q(0, .95)
	case len(vals[1]) > 0:
		t[0] = max(vals[1][0]/2., 0.)
	}
	for i := 1; i < ncat-1; i++ {
		if len(vals[i]) > 0 && len(vals[i+1]) > 0 {
			t[i] = (q(i, .95) + q(i+1, .05)) / 2.
		}
	}

	for i := range t {
		if t[i] == unset {
			t[i] = interpolateThreshold(t, i, unset)
		}
	}
	for i := range t {
		if t[i] == unset {
			return nil, fmt.Errorf("%w: breakpoint %d not derivable from reference", ErrInvalidThresholds, i)
		}
	}

	// quantile midpoints of sparse categories can collide; keep the set
	// strictly increasing
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			t[i] = t[i-1] + categoryIncrement
		}
	}
	return t, nil
}

// interpolateThreshold fills t[i] from the nearest set neighbours: the
// midpoint when bracketed, one increment past the single neighbour
// otherwise, floored at zero.
func interpolateThreshold(t ThresholdSet, i int, unset float64) float64 {
	prev, next := unset, unset
	for j := i - 1; j >= 0; j-- {
		if t[j] != unset {
			prev = t[j]
			break
		}
	}
	for j := i + 1; j < len(t); j++ {
		if t[j] != unset {
			next = t[j]
			break
		}
	}
	switch {
	case prev != unset && next != unset:
		return max((prev+next)/2., 0.)
	case prev != unset:
		return max(prev+categoryIncrement, 0.)
	case next != unset:
		return max(next-categoryIncrement, 0.)
	}
	return unset
}
