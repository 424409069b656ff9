// Package workers runs the application's background jobs. Each job blocks
// inside Run until its context is cancelled; the Workers aggregate starts
// them together and waits for all of them to stop.
package workers

import (
	"context"
	"sync"
)

// Worker is one background job. Run blocks until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

// Workers starts a set of jobs and waits for them collectively.
type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in its own goroutine and returns when all of
// them have stopped.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for _, worker := range w.workers {
		wg.Add(1)
		go func(worker Worker) {
			defer wg.Done()
			worker.Run(ctx)
		}(worker)
	}

	wg.Wait()
}
