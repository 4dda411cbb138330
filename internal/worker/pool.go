// Package worker provides the small concurrency utilities shared by the
// scheduler and the API clients: a bounded parallel map and an outbound
// request limiter.
package worker

import (
	"context"
	"sync"
)

// Map runs fn over every job with at most workers goroutines and returns the
// results in job order. It always waits for in-flight jobs to finish; fn is
// responsible for honoring ctx.
func Map[J, R any](ctx context.Context, workers int, jobs []J, fn func(context.Context, J) R) []R {
	if len(jobs) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]R, len(jobs))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = fn(ctx, jobs[i])
			}
		}()
	}

	for i := range jobs {
		select {
		case indexes <- i:
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return results
		}
	}
	close(indexes)
	wg.Wait()
	return results
}
