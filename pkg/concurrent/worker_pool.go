package concurrent

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

/*
WorkerPool runs a JobFunc over a queue of jobs with a fixed number of
goroutines. Usage:

	wp := NewWorkerPool[T, G](workers, len(jobs))
	for _, j := range jobs {
		wp.AddJob(j)
	}
	wp.Close()
	wp.Start(fn)
	wp.Wait()
	for r := range wp.CollectResults() {
		...
	}

The job and result queues are buffered for numJobs items, so AddJob and the
workers never block as long as no more than numJobs jobs are added.
*/
type WorkerPool[T, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	g          errgroup.Group
}

func NewWorkerPool[T, G any](numWorkers, numJobs int) *WorkerPool[T, G] {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	wp := &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, numJobs),
		results:    make(chan G, numJobs),
	}
	wp.g.SetLimit(numWorkers)
	return wp
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

// Close marks the end of the job queue. Workers exit once it is drained.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

func (wp *WorkerPool[T, G]) Start(fn JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.g.Go(func() error {
			for job := range wp.jobQueue {
				wp.results <- fn(job)
			}
			return nil
		})
	}
}

// Wait blocks until every job has been processed and closes the results.
func (wp *WorkerPool[T, G]) Wait() {
	_ = wp.g.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() <-chan G {
	return wp.results
}
