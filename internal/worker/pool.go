// Package worker runs sentence-level question generation concurrently
// while keeping the output order of the input corpus.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	GetError() error
}

// Pool executes jobs on a fixed number of workers. Results arrive in
// completion order; callers needing input order sort afterwards.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	queueOnce  sync.Once
	closeOnce  sync.Once
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Submissions after Wait are dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- job:
	}
}

// Close marks the end of submissions. Must be called by the submitting
// goroutine; Submit after Close panics.
func (p *Pool) Close() {
	p.queueOnce.Do(func() {
		close(p.jobQueue)
	})
}

// Gather waits for the workers to drain the queue and returns all results
// in completion order. The channels are bounded, so results must be
// gathered while jobs are still being submitted when the job count
// exceeds the buffers; submit from a separate goroutine and Close there.
func (p *Pool) Gather() []Result {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Wait closes the queue and gathers. Only safe when every Submit happened
// on the calling goroutine.
func (p *Pool) Wait() []Result {
	p.Close()
	return p.Gather()
}

// Shutdown cancels outstanding work immediately.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
