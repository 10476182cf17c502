// Package pool holds a bounded set of reusable, stateful instances.
//
// A Network carries per-query selections and so must not be shared between
// goroutines. The pool hands each caller its own instance and blocks further
// callers once all instances are borrowed.
package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned by Borrow after Close.
var ErrClosed = errors.New("pool: closed")

// Resetter is implemented by instances that clear their state on Return.
type Resetter interface {
	Reset()
}

// Stats holds pool statistics.
type Stats struct {
	Size    int
	Created int64
	InUse   int64
	Borrows int64
	Waits   int64
}

// Pool is a bounded pool of T. Instances are created lazily by newFn.
type Pool[T any] struct {
	size  int
	newFn func() (T, error)
	sem   *semaphore.Weighted

	mu     sync.Mutex
	free   []T
	closed bool

	created atomic.Int64
	inUse   atomic.Int64
	borrows atomic.Int64
	waits   atomic.Int64
}

// New creates a pool of at most size instances.
func New[T any](size int, newFn func() (T, error)) *Pool[T] {
	if size <= 0 {
		size = 1
	}
	return &Pool[T]{
		size:  size,
		newFn: newFn,
		sem:   semaphore.NewWeighted(int64(size)),
		free:  make([]T, 0, size),
	}
}

// Borrow returns a free instance, creating one if the pool has not reached
// its size. It blocks until an instance is returned or ctx is done.
func (p *Pool[T]) Borrow(ctx context.Context) (T, error) {
	var zero T

	if !p.sem.TryAcquire(1) {
		p.waits.Add(1)
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return zero, err
		}
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.sem.Release(1)
		return zero, ErrClosed
	}
	if n := len(p.free); n > 0 {
		inst := p.free[n-1]
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		p.mu.Unlock()
		p.borrowed()
		return inst, nil
	}
	p.mu.Unlock()

	inst, err := p.newFn()
	if err != nil {
		p.sem.Release(1)
		return zero, err
	}
	p.created.Add(1)
	p.borrowed()
	return inst, nil
}

func (p *Pool[T]) borrowed() {
	p.borrows.Add(1)
	p.inUse.Add(1)
}

// Return resets inst and makes it available again. Every successful Borrow
// must be paired with exactly one Return.
func (p *Pool[T]) Return(inst T) {
	if r, ok := any(inst).(Resetter); ok {
		r.Reset()
	}

	p.mu.Lock()
	if !p.closed {
		p.free = append(p.free, inst)
	}
	p.mu.Unlock()

	p.inUse.Add(-1)
	p.sem.Release(1)
}

// Close drops the idle instances. Borrowed instances may still be returned.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	clear(p.free)
	p.free = p.free[:0]
}

// Stats returns a snapshot of the pool statistics.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Size:    p.size,
		Created: p.created.Load(),
		InUse:   p.inUse.Load(),
		Borrows: p.borrows.Load(),
		Waits:   p.waits.Load(),
	}
}
