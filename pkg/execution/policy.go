// Package execution defines how independent units of work are dispatched:
// inline on the calling goroutine, or fanned out over a bounded worker pool
// that is joined before the call returns.
package execution

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Policy selects sequential or parallel dispatch. The zero value is
// sequential.
type Policy struct {
	workers int
}

// Sequential runs every unit inline, in index order.
var Sequential = Policy{}

// Parallel returns a policy backed by one worker per available hardware
// thread.
func Parallel() Policy {
	return WithWorkers(runtime.GOMAXPROCS(0))
}

// WithWorkers returns a parallel policy bounded to n workers. n <= 1
// degrades to Sequential.
func WithWorkers(n int) Policy {
	if n <= 1 {
		return Sequential
	}
	return Policy{workers: n}
}

func (p Policy) IsParallel() bool {
	return p.workers > 1
}

func (p Policy) Workers() int {
	if p.workers < 1 {
		return 1
	}
	return p.workers
}

func (p Policy) String() string {
	if p.IsParallel() {
		return "parallel"
	}
	return "sequential"
}

// ForEach calls fn(i) for every i in [0, n). Under a parallel policy the
// calls may run concurrently; ForEach returns once all of them have.
func (p Policy) ForEach(n int, fn func(i int)) {
	_ = p.ForEachErr(n, func(i int) error {
		fn(i)
		return nil
	})
}

// ForEachErr is ForEach for fallible units. Every unit runs to completion;
// the first error encountered is returned.
func (p Policy) ForEachErr(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if !p.IsParallel() || n == 1 {
		var firstErr error
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
