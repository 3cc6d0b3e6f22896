package stream

import (
	"context"
	"sync"
)

// RunExecutor starts workers goroutines, each pulling from tasks and
// applying pipeline.Process, until tasks is closed. Results are sent
// to the returned channel, which is closed once every worker has
// drained tasks and exited.
func RunExecutor(ctx context.Context, pipeline *Pipeline, tasks <-chan Task, workers int) <-chan TaskResult {
	results := make(chan TaskResult, workers*2)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for task := range tasks {
				result := pipeline.Process(ctx, task)
				select {
				case results <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
