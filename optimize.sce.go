package roughness

import (
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/maseology/glbopt"
	"github.com/maseology/mmaths"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
)

// OptimizeSCE refines breakpoints with shuffled complex evolution rather
// than a fixed sampling budget. Invalid trial vectors score zero. The
// returned Evaluated is the number of objective calls SCE spent, which
// SCE chooses itself; use Optimize when a hard candidate budget is
// required.
func OptimizeSCE(rg *RoughnessGrid, ref *ClassifiedGrid, spec OptimizeSpec) (*OptimizationResult, error) {
	if spec.NumThresholds < 1 || !(spec.Min < spec.Max) {
		return nil, fmt.Errorf("%w: %d breakpoints over (%g,%g)", ErrInvalidThresholds, spec.NumThresholds, spec.Min, spec.Max)
	}
	if rg == nil || ref == nil || !sameShape(rg.Nr, rg.Nc, ref.Nr, ref.Nc) {
		return nil, fmt.Errorf("%w: roughness and reference shapes differ", ErrIncompatibleGrids)
	}

	rng := rand.New(mrg63k3a.New())
	if spec.Seed != 0 {
		rng.Seed(spec.Seed)
	} else {
		rng.Seed(time.Now().UnixNano())
	}

	toThresholds := func(u []float64) ThresholdSet {
		t := make(ThresholdSet, len(u))
		for j, v := range u {
			t[j] = mmaths.LinearTransform(spec.Min, spec.Max, v)
		}
		sort.Float64s(t)
		return t
	}

	var neval int64
	gen := func(u []float64) float64 {
		t := toThresholds(u)
		if t.Check() != nil {
			return 1. // worst, minimized objective is 1-score
		}
		cg, err := Classify(rg, t)
		if err != nil {
			return 1.
		}
		rep, err := Evaluate(cg, ref, spec.Score)
		if err != nil {
			return 1.
		}
		atomic.AddInt64(&neval, 1)
		return 1. - rep.Score
	}

	uFinal, _ := glbopt.SCE(runtime.GOMAXPROCS(0), spec.NumThresholds, rng, gen, true)

	tFinal := toThresholds(uFinal)
	if tFinal.Check() != nil {
		return nil, fmt.Errorf("%w: SCE converged on a degenerate breakpoint set", ErrOptimizationExhausted)
	}
	cg, err := Classify(rg, tFinal)
	if err != nil {
		return nil, err
	}
	rep, err := Evaluate(cg, ref, spec.Score)
	if err != nil {
		return nil, err
	}
	if neval == 0 {
		return nil, fmt.Errorf("%w: no valid candidate evaluated", ErrOptimizationExhausted)
	}
	return &OptimizationResult{Thresholds: tFinal, Report: rep, Evaluated: int(neval)}, nil
}
