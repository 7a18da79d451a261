/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package semaphore bounds how many goroutines run a given piece of work
// concurrently - used by the health prober to cap in-flight TCP connect
// probes during a reload cycle instead of dialing every backend at once.
package semaphore

import (
	"context"
	"runtime"
	"time"

	xsem "golang.org/x/sync/semaphore"
)

// Sem is a weighted semaphore bound to a context: cancelling the context
// (or calling DeferMain) releases every caller blocked in NewWorker.
type Sem interface {
	context.Context

	// Weighted returns the configured concurrency limit, or -1 when the
	// semaphore was built unlimited.
	Weighted() int64
	// NewWorker blocks until a slot is available or the semaphore's
	// context is done.
	NewWorker() error
	// NewWorkerTry attempts to acquire a slot without blocking.
	NewWorkerTry() bool
	// DeferWorker releases one previously acquired slot.
	DeferWorker()
	// WaitAll blocks until every outstanding slot has been released.
	WaitAll() error
	// DeferMain cancels the semaphore's context and releases all callers
	// blocked in NewWorker.
	DeferMain()
}

type sem struct {
	ctx    context.Context
	cancel context.CancelFunc
	weight int64
	sem    *xsem.Weighted
}

// New returns a Sem bounding concurrency to weight. A weight <= 0 means
// unlimited concurrency (Weighted reports -1, NewWorker never blocks).
func New(ctx context.Context, weight int64) Sem {
	if ctx == nil {
		ctx = context.Background()
	}
	c, cancel := context.WithCancel(ctx)

	s := &sem{ctx: c, cancel: cancel}
	if weight <= 0 {
		s.weight = -1
		return s
	}

	s.weight = weight
	s.sem = xsem.NewWeighted(weight)
	return s
}

// MaxSimultaneous returns a sane default concurrency limit derived from
// the host's CPU count, used when no explicit limit is configured.
func MaxSimultaneous() int64 {
	n := runtime.NumCPU() * 4
	if n < 1 {
		n = 1
	}
	return int64(n)
}

func (s *sem) Weighted() int64 {
	return s.weight
}

func (s *sem) NewWorker() error {
	if s.sem == nil {
		return nil
	}
	return s.sem.Acquire(s.ctx, 1)
}

func (s *sem) NewWorkerTry() bool {
	if s.sem == nil {
		return true
	}
	return s.sem.TryAcquire(1)
}

func (s *sem) DeferWorker() {
	if s.sem == nil {
		return
	}
	s.sem.Release(1)
}

// WaitAll blocks until the full weight is available again, i.e. every
// acquired slot has been released.
func (s *sem) WaitAll() error {
	if s.sem == nil {
		return nil
	}
	if err := s.sem.Acquire(s.ctx, s.weight); err != nil {
		return err
	}
	s.sem.Release(s.weight)
	return nil
}

func (s *sem) DeferMain() {
	s.cancel()
}

func (s *sem) Deadline() (time.Time, bool) {
	return s.ctx.Deadline()
}

func (s *sem) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *sem) Err() error {
	return s.ctx.Err()
}

func (s *sem) Value(key interface{}) interface{} {
	return s.ctx.Value(key)
}
