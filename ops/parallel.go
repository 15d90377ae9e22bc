/*package ops implements the discrete differential operators of the solver
(divergence, pressure gradient, Laplacian, advection) on the staggered grid,
along with the interior reductions the diagnostics are built from.

Operators read ghost cells but never set boundary values, so boundary
enforcement stays the exclusive job of the bc package. The gradient
correction is the one operator writing outside the interior: it updates
every face its matching divergence reads, including the boundary faces
stored in ghost slots.
*/
package ops

import (
	"runtime"
	"sync"
)

// NumCores is the number of goroutines used by the plane-parallel loops.
// Change it before constructing a simulation.
var NumCores = runtime.NumCPU()

// ForEachPlane runs work(k) for k in [lo, hi), fanning the planes out over
// NumCores goroutines. Planes are assigned with a stride so neighboring
// planes land on different workers.
func ForEachPlane(lo, hi int, work func(k int)) {
	workers := NumCores
	if workers > hi-lo {
		workers = hi - lo
	}
	if workers <= 1 {
		for k := lo; k < hi; k++ {
			work(k)
		}
		return
	}

	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for k := lo + w; k < hi; k += workers {
				work(k)
			}
		}(w)
	}
	wg.Wait()
}
