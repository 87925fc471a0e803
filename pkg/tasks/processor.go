// Package tasks runs background jobs on a fixed pool of worker goroutines.
package tasks

import (
	"io"
	"log"
	"runtime"
	"sync"
)

// Processor executes queued jobs on a fixed number of workers in FIFO order.
// The queue is unbounded so Enqueue never blocks the caller.
type Processor struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool

	workers int
	wg      sync.WaitGroup
	logger  *log.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used to report panicking jobs.
func WithLogger(l *log.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// New starts a processor with the given number of workers. A non-positive
// count uses one worker per available CPU.
func New(workers int, opts ...Option) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Processor{
		workers: workers,
		logger:  log.New(io.Discard, "", 0),
	}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Processor) Workers() int {
	return p.workers
}

// Pending returns the number of jobs waiting for a worker.
func (p *Processor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Enqueue adds a job to the back of the queue. Enqueueing after Stop is a
// programming error and panics.
func (p *Processor) Enqueue(job func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		panic("tasks: Enqueue called after Stop")
	}
	p.queue = append(p.queue, job)
	p.cond.Signal()
}

// Stop marks the queue complete, discards jobs that have not started and
// waits for running jobs to finish. Calling Stop more than once is a no-op.
func (p *Processor) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	dropped := len(p.queue)
	p.queue = nil
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
	if dropped > 0 {
		p.logger.Printf("stopped with %d pending jobs discarded", dropped)
	}
}

func (p *Processor) worker() {
	defer p.wg.Done()
	for {
		job, ok := p.next()
		if !ok {
			return
		}
		p.run(job)
	}
}

// next blocks until a job is available or the processor is stopped.
func (p *Processor) next() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 && !p.stopped {
		p.cond.Wait()
	}
	if p.stopped {
		return nil, false
	}
	job := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return job, true
}

func (p *Processor) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("job panicked: %v", r)
		}
	}()
	job()
}
