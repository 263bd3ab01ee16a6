package game

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/island/world"
)

// parallelThreshold is the minimum number of Locations to use the worker pool.
// Below this, a plain loop is faster than goroutine overhead.
const parallelThreshold = 16

// workerCount resolves the configured worker count; 0 means GOMAXPROCS.
func workerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	return runtime.GOMAXPROCS(0)
}

// parallelFor calls fn for every index in [0, n) on at most workers
// goroutines. The first error stops scheduling further work and is returned
// once in-flight calls finish.
func parallelFor(ctx context.Context, workers, n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	if workers <= 1 || n < parallelThreshold {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}

// forEachLocation runs fn for every Location in locs on the worker pool.
func (g *Game) forEachLocation(ctx context.Context, locs []*world.Location, fn func(*world.Location) error) error {
	return parallelFor(ctx, g.workers, len(locs), func(i int) error {
		return fn(locs[i])
	})
}
