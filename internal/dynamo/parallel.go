package dynamo

import "golang.org/x/sync/errgroup"

// ParallelFor calls fn over disjoint chunks covering [0, n) on at most
// workers goroutines and returns the first error any chunk reports. Small
// ranges run inline.
func ParallelFor(n, workers, minChunk int, fn func(start, end int) error) error {
	if minChunk < 1 {
		minChunk = 1
	}
	if workers <= 1 || n <= minChunk {
		return fn(0, n)
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		start := start
		end := min(start+chunkSize, n)
		g.Go(func() error {
			return fn(start, end)
		})
	}
	return g.Wait()
}
