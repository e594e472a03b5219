// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent worker pool for splitting bulk
// math kernels across cores. A Pool is created once and reused for every
// call, so large Pow batches and long accuracy sweeps do not pay goroutine
// spawn costs per call.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ParallelFor(len(x), func(start, end int) {
//	    math.BasePow(x[start:end], y[start:end], out[start:end])
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines fed through a channel.
type Pool struct {
	numWorkers int
	tasks      chan task

	// mu guards closed; senders counts calls still queueing tasks, which
	// Close waits out before closing the channel.
	mu      sync.Mutex
	closed  bool
	senders sync.WaitGroup
}

// task is one worker's share of a parallel call.
type task struct {
	run  func()
	done *sync.WaitGroup
}

// New starts a pool of numWorkers goroutines that live until Close.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: numWorkers,
		tasks:      make(chan task, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.tasks {
		t.run()
		t.done.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close stops the workers once queued work has drained. It is safe to call
// more than once and concurrently with ParallelFor; calls that start after
// Close run on the caller's goroutine.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	p.senders.Wait()
	close(p.tasks)
}

// acquire registers the caller as a sender, or reports false once the pool
// is closed. A successful acquire must be paired with p.senders.Done.
func (p *Pool) acquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.senders.Add(1)
	return true
}

// ParallelFor splits [0, n) into one contiguous range per worker and calls
// fn(start, end) for each. It blocks until every range is done.
//
// Ranges are fixed by n and the worker count alone, so element-wise
// kernels produce the same output as a single fn(0, n) call.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	if workers == 1 || !p.acquire() {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		p.tasks <- task{
			run:  func() { fn(start, end) },
			done: &wg,
		}
	}
	p.senders.Done()
	wg.Wait()
}

// ParallelForAtomicBatched hands out [0, n) in batches of batchSize through
// an atomic counter, so workers that finish early take more batches. Use it
// when the cost per element varies, as with multiprecision reference
// evaluation. fn receives (start, end) of one batch at a time.
func (p *Pool) ParallelForAtomicBatched(n int, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	numBatches := (n + batchSize - 1) / batchSize
	workers := min(p.numWorkers, numBatches)
	if workers == 1 || !p.acquire() {
		fn(0, n)
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.tasks <- task{
			run: func() {
				for {
					start := int(next.Add(1)-1) * batchSize
					if start >= n {
						return
					}
					fn(start, min(start+batchSize, n))
				}
			},
			done: &wg,
		}
	}
	p.senders.Done()
	wg.Wait()
}
