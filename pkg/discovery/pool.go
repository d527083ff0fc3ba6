package discovery

import (
	"context"
	"sync"
)

// probePool bounds the number of table probes in flight against a provider
// at once, so discovery cannot hammer a rate-limited API.
type probePool struct {
	maxConcurrent int
}

func newProbePool(maxConcurrent int) *probePool {
	if maxConcurrent < 1 {
		maxConcurrent = 5
	}
	return &probePool{maxConcurrent: maxConcurrent}
}

// probeItem is one unit of probe work, identified by table name.
type probeItem[T any] struct {
	Table   string
	Execute func(ctx context.Context) (T, error)
}

// probeResult pairs a probe's output with its table.
type probeResult[T any] struct {
	Table  string
	Result T
	Err    error
}

// runProbes executes all items with bounded parallelism and returns results
// in completion order. All items run even if some fail; callers re-sort by
// declaration order before scoring.
func runProbes[T any](ctx context.Context, pool *probePool, items []probeItem[T]) []probeResult[T] {
	if len(items) == 0 {
		return nil
	}

	resultsChan := make(chan probeResult[T], len(items))
	sem := make(chan struct{}, pool.maxConcurrent)

	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func(item probeItem[T]) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				var zero T
				resultsChan <- probeResult[T]{Table: item.Table, Result: zero, Err: ctx.Err()}
				return
			}

			result, err := item.Execute(ctx)
			resultsChan <- probeResult[T]{Table: item.Table, Result: result, Err: err}
		}(item)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]probeResult[T], 0, len(items))
	for r := range resultsChan {
		results = append(results, r)
	}
	return results
}
