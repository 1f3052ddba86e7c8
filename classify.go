package roughness

import (
	"fmt"
	"math"
	"sort"
)

// ThresholdSet is an ordered set of strictly increasing breakpoints. A
// set of k breakpoints defines k+1 half-open categories
// (-inf,t1), [t1,t2), ..., [tk,+inf). An empty set is legal and yields a
// single category.
type ThresholdSet []float64

// Check rejects unsorted, duplicated or NaN breakpoints.
func (t ThresholdSet) Check() error {
	for i, v := range t {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: NaN at index %d", ErrInvalidThresholds, i)
		}
		if i > 0 && v <= t[i-1] {
			return fmt.Errorf("%w: %g !< %g at index %d", ErrInvalidThresholds, t[i-1], v, i)
		}
	}
	return nil
}

// category is the count of breakpoints <= v, i.e. the index of the
// half-open interval containing v. Monotone in v by construction.
func (t ThresholdSet) category(v float64) int32 {
	return int32(sort.Search(len(t), func(i int) bool { return t[i] > v }))
}

// Classify maps each unmasked roughness cell to its category index and
// each masked cell to NoCategory. Pure per-cell mapping; the inputs are
// not touched.
func Classify(rg *RoughnessGrid, t ThresholdSet) (*ClassifiedGrid, error) {
	if rg == nil || len(rg.V) != rg.Nr*rg.Nc || len(rg.Ok) != rg.Nr*rg.Nc {
		return nil, fmt.Errorf("%w: malformed roughness grid", ErrIncompatibleGrids)
	}
	if err := t.Check(); err != nil {
		return nil, err
	}
	cg := newClassifiedGrid(rg.Nr, rg.Nc)
	for i, ok := range rg.Ok {
		if !ok {
			continue
		}
		cg.C[i] = t.category(rg.V[i])
		cg.Ok[i] = true
	}
	return cg, nil
}
