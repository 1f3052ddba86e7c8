package roughness

import (
	"runtime"
	"sync"
)

// computeRows fans interior rows out to one worker per processor. Cells
// have no cross-cell dependency; workers write disjoint row ranges of
// the pre-allocated output, so the only synchronization is the final
// wait.
func computeRows(dem *ElevationGrid, rg *RoughnessGrid, radx, rady int, hi float64) {
	rows := make(chan int, dem.Nr)
	for row := rady; row < dem.Nr-rady; row++ {
		rows <- row
	}
	close(rows)

	var wg sync.WaitGroup
	for range runtime.GOMAXPROCS(0) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]float64, 0, (2*rady+1)*(2*radx+1))
			var sd float64
			var ok bool
			for row := range rows {
				o := row * dem.Nc
				for col := radx; col < dem.Nc-radx; col++ {
					if buf, sd, ok = cellStat(dem, row, col, radx, rady, buf); !ok {
						continue
					}
					if sd > hi {
						continue // artifact, leave masked
					}
					rg.V[o+col] = sd
					rg.Ok[o+col] = true
				}
			}
		}()
	}
	wg.Wait()
}
