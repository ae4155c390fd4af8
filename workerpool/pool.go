/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package workerpool is a bounded FIFO queue of unit-of-work closures run by
// a fixed set of worker goroutines. One mutex guards the queue, counters and
// shutdown flag; two condition variables signal "queue non-empty" (wakes a
// worker) and "drained" (wakes a Wait caller). Submit refuses work once
// Shutdown has been called or the queue is already at its configured
// maximum depth.
package workerpool

import "sync"

// Unit is one item of work: read a request, run the handler, write the
// response. A Unit never returns a value; failures are logged by the
// caller that constructed the closure, not reported back through the pool.
type Unit func()

// Config describes a Pool's fixed shape. Workers and QueueDepth are applied
// once at New and never change for the lifetime of the Pool.
type Config struct {
	Workers    int
	QueueDepth int
}

// Pool is a fixed worker-goroutine set draining a bounded FIFO queue.
type Pool struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	drained  *sync.Cond

	queue []Unit
	max   int

	shutdown bool
	busy     int

	submitted int64
	completed int64
	rejected  int64

	wg sync.WaitGroup
}

// New starts Workers goroutines and returns a Pool ready to accept Submit
// calls. Workers and QueueDepth must both be positive.
func New(cfg Config) (*Pool, error) {
	if cfg.Workers <= 0 || cfg.QueueDepth <= 0 {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	p := &Pool{max: cfg.QueueDepth}
	p.notEmpty = sync.NewCond(&p.mu)
	p.drained = sync.NewCond(&p.mu)

	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p, nil
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()

		for len(p.queue) == 0 && !p.shutdown {
			p.notEmpty.Wait()
		}

		if len(p.queue) == 0 && p.shutdown {
			p.mu.Unlock()
			return
		}

		u := p.queue[0]
		p.queue = p.queue[1:]
		p.busy++
		p.mu.Unlock()

		u()

		p.mu.Lock()
		p.busy--
		p.completed++
		p.drained.Broadcast()
		p.mu.Unlock()
	}
}

// Submit enqueues u. It returns false, without running u, when the pool is
// shutting down or the queue is already at its configured maximum depth; in
// the latter case the submitted and rejected counters are incremented.
func (p *Pool) Submit(u Unit) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return false
	}

	if len(p.queue) >= p.max {
		p.submitted++
		p.rejected++
		return false
	}

	p.queue = append(p.queue, u)
	p.submitted++
	p.notEmpty.Signal()

	return true
}

// Wait blocks until the queue is empty and no worker is currently executing
// a unit. It does not prevent new submissions from arriving afterward.
func (p *Pool) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) > 0 || p.busy > 0 {
		p.drained.Wait()
	}
}

// Shutdown sets the shutdown flag, wakes every worker, and blocks until all
// of them have exited. A worker exits only once the queue is empty, so
// units still queued at the moment Shutdown is called are run first.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.shutdown = true
	p.notEmpty.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
}

// Counters reports submitted, completed and rejected totals, plus the
// number of units currently queued or executing. The invariant
// completed + rejected + (queued + executing) == submitted always holds.
func (p *Pool) Counters() (submitted, completed, rejected int64, queued, executing int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.submitted, p.completed, p.rejected, len(p.queue), p.busy
}
