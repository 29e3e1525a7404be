package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type (
	// WorkerFunc queues a job. It may block until a worker is free.
	WorkerFunc func(func() error)
	// WaitFunc stops the pool from accepting jobs and blocks until every
	// queued job finished.
	WaitFunc func() Stats
)

// Stats counts finished jobs.
type Stats struct {
	Processed uint64
	Failed    uint64
}

func (s Stats) Total() uint64 {
	return s.Processed + s.Failed
}

type Pool struct {
	wg        sync.WaitGroup
	processed atomic.Uint64
	failed    atomic.Uint64

	Do   WorkerFunc
	Wait WaitFunc
}

// Start returns a pool of numWorkers goroutines, GOMAXPROCS when < 1. A
// single worker runs jobs synchronously in Do.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{}
	pool.Do = func(f func() error) {
		pool.run(f)
	}
	pool.Wait = pool.stats

	if numWorkers > 1 {
		workChan := make(chan func() error, numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					pool.run(f)
				}
			})
		}

		pool.Do = func(f func() error) {
			workChan <- f
		}

		closeWork := sync.OnceFunc(func() { close(workChan) })
		pool.Wait = func() Stats {
			closeWork()
			pool.wg.Wait()
			return pool.stats()
		}
	}

	return pool
}

func (p *Pool) run(f func() error) {
	if err := f(); err != nil {
		p.failed.Add(1)
		return
	}
	p.processed.Add(1)
}

func (p *Pool) stats() Stats {
	return Stats{
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
	}
}
