package sph

import "golang.org/x/sync/errgroup"

// minChunk is the smallest per-goroutine batch worth the scheduling cost.
const minChunk = 64

// parallelFor runs fn over [0, n) in contiguous chunks on up to workers
// goroutines. It runs inline when workers <= 1 or n is small.
func parallelFor(workers, n int, fn func(start, end int)) {
	if workers <= 1 || n <= minChunk {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
