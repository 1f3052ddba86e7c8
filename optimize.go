package roughness

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/maseology/mmaths"
	"github.com/maseology/montecarlo/smpln"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
)

// OptimizeSpec bounds a breakpoint search.
type OptimizeSpec struct {
	CandidateCount int            // generation budget; the search terminates here, improved or not
	NumThresholds  int            // breakpoints per candidate
	Min, Max       float64        // search bounds
	Score          ScoreFunc      // objective, defaults to ScoreAccuracy
	Seeds          []ThresholdSet // candidates tried before sampling, count against the budget
	Workers        int            // concurrent candidate evaluations, defaults to GOMAXPROCS
	Seed           int64          // sampling-plan seed; wall clock when zero
}

func (s OptimizeSpec) check() error {
	if s.CandidateCount < 1 {
		return fmt.Errorf("%w: candidate budget %d", ErrOptimizationExhausted, s.CandidateCount)
	}
	if s.NumThresholds < 1 {
		return fmt.Errorf("%w: %d breakpoints requested", ErrInvalidThresholds, s.NumThresholds)
	}
	if !(s.Min < s.Max) {
		return fmt.Errorf("%w: search bounds (%g,%g)", ErrInvalidThresholds, s.Min, s.Max)
	}
	return nil
}

// OptimizationResult is the best candidate of one optimization run.
type OptimizationResult struct {
	Thresholds ThresholdSet
	Report     *QualityReport
	Evaluated  int
}

type candidate struct {
	i int
	t ThresholdSet
}

type scored struct {
	i   int
	t   ThresholdSet
	rep *QualityReport
}

// Optimize searches for the breakpoint set maximizing the objective
// against a reference labeling. Candidates come from the caller's seeds
// followed by a Latin-hypercube sample of the unit hypercube mapped onto
// (Min,Max) and sorted; any candidate that is not strictly increasing is
// discarded unevaluated. Candidate evaluations are mutually independent
// and run concurrently; the best is selected by a fold over the results
// with ties broken toward the earliest-generated candidate, so the
// outcome does not depend on scheduling. Cancellation is honored between
// candidate generations only, never mid-evaluation.
func Optimize(ctx context.Context, rg *RoughnessGrid, ref *ClassifiedGrid, spec OptimizeSpec) (*OptimizationResult, error) {
	if err := spec.check(); err != nil {
		return nil, err
	}
	if rg == nil || ref == nil || !sameShape(rg.Nr, rg.Nc, ref.Nr, ref.Nc) {
		return nil, fmt.Errorf("%w: roughness and reference shapes differ", ErrIncompatibleGrids)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	nw := spec.Workers
	if nw < 1 {
		nw = runtime.GOMAXPROCS(0)
	}
	if nw > spec.CandidateCount {
		nw = spec.CandidateCount
	}

	in := make(chan candidate, nw)
	out := make(chan scored, nw)
	var wg sync.WaitGroup
	for range nw {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range in {
				cg, err := Classify(rg, c.t)
				if err != nil {
					continue // candidate violated an invariant, uncounted
				}
				rep, err := Evaluate(cg, ref, spec.Score)
				if err != nil {
					continue
				}
				out <- scored{c.i, c.t, rep}
			}
		}()
	}
	done := make(chan *OptimizationResult)
	go func() { // fold best-so-far; single point of serialization
		var best *scored
		n := 0
		for s := range out {
			n++
			if best == nil || s.rep.Score > best.rep.Score ||
				(s.rep.Score == best.rep.Score && s.i < best.i) {
				s := s
				best = &s
			}
		}
		if best == nil {
			done <- nil
			return
		}
		done <- &OptimizationResult{Thresholds: best.t, Report: best.rep, Evaluated: n}
	}()

	// generate
	cancelled := generate(ctx, in, spec)
	close(in)
	wg.Wait()
	close(out)

	res := <-done
	if res == nil {
		if cancelled != nil {
			return nil, cancelled
		}
		return nil, fmt.Errorf("%w: no valid candidate in %d", ErrOptimizationExhausted, spec.CandidateCount)
	}
	return res, nil
}

// generate feeds up to spec.CandidateCount strictly increasing breakpoint
// vectors into in, checking for cancellation before each one.
func generate(ctx context.Context, in chan<- candidate, spec OptimizeSpec) error {
	i := 0
	emit := func(t ThresholdSet) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if t.Check() == nil {
			in <- candidate{i, t}
		}
		i++
		return true
	}

	for _, t := range spec.Seeds {
		if i >= spec.CandidateCount {
			return nil
		}
		if !emit(t) {
			return ctx.Err()
		}
	}

	m := spec.CandidateCount - i
	if m < 1 {
		return nil
	}
	rng := rand.New(mrg63k3a.New())
	if spec.Seed != 0 {
		rng.Seed(spec.Seed)
	} else {
		rng.Seed(time.Now().UnixNano())
	}
	p := spec.NumThresholds
	sp := smpln.NewLHC(rng, m, p, false)
	for k := 0; k < m; k++ {
		t := make(ThresholdSet, p)
		for j := 0; j < p; j++ {
			t[j] = mmaths.LinearTransform(spec.Min, spec.Max, sp.U[j][k])
		}
		sort.Float64s(t)
		if !emit(t) {
			return ctx.Err()
		}
	}
	return nil
}
