package roughness

import (
	"runtime"
	"sync"
)

// accumulateConfusion builds the confusion matrix over disjoint row
// partitions, one partial matrix per worker, merged by addition at the
// end. Merge order cannot matter (integer addition), so the result is
// identical to a single-pass tally.
func accumulateConfusion(pred, ref *ClassifiedGrid, n int) *ConfusionMatrix {
	cm := newConfusionMatrix(n)
	if n == 0 {
		return cm
	}

	nw := runtime.GOMAXPROCS(0)
	if nw > pred.Nr {
		nw = pred.Nr
	}
	parts := make([]*ConfusionMatrix, nw)
	chunk := (pred.Nr + nw - 1) / nw

	var wg sync.WaitGroup
	for iw := range nw {
		wg.Add(1)
		go func(iw int) {
			defer wg.Done()
			p := newConfusionMatrix(n)
			r0, r1 := iw*chunk, (iw+1)*chunk
			if r1 > pred.Nr {
				r1 = pred.Nr
			}
			for i := r0 * pred.Nc; i < r1*pred.Nc; i++ {
				if pred.Ok[i] && ref.Ok[i] {
					p.Cnt[int(ref.C[i])*n+int(pred.C[i])]++
				}
			}
			parts[iw] = p
		}(iw)
	}
	wg.Wait()

	for _, p := range parts {
		cm.Merge(p)
	}
	return cm
}
