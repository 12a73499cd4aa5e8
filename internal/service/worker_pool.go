package service

import (
	"runtime"
	"sync"
)

// workerPool runs screening jobs concurrently with a bounded number of
// workers, so a batch request cannot fan out without limit. Completion
// is tracked per batch: each job carries its caller's WaitGroup, so
// concurrent batches never touch each other's counters.
type workerPool struct {
	workers  int
	jobQueue chan poolJob
	once     sync.Once
}

type poolJob struct {
	run  func()
	done *sync.WaitGroup
}

// newWorkerPool creates a pool with the specified number of workers.
// Non-positive counts default to one worker per CPU.
func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &workerPool{
		workers:  workers,
		jobQueue: make(chan poolJob, workers*2),
	}
}

// start launches the workers. Safe to call more than once.
func (wp *workerPool) start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *workerPool) worker() {
	for job := range wp.jobQueue {
		job.run()
		job.done.Done()
	}
}

// submit queues a job against the caller's WaitGroup. Blocks when the
// queue is full.
func (wp *workerPool) submit(wg *sync.WaitGroup, job func()) {
	wg.Add(1)
	wp.jobQueue <- poolJob{run: job, done: wg}
}

// close shuts the pool down. No submits may follow.
func (wp *workerPool) close() {
	close(wp.jobQueue)
}
