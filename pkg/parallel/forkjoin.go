package parallel

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ForkJoin schedules a tree of tasks on at most Workers goroutines.
// The calling goroutine counts as one worker, so Workers-1 permits are shared
// by all spawned children. A child that cannot get a permit runs inline on
// the spawning goroutine, which keeps nested joins deadlock-free.
type ForkJoin struct {
	workers int
	sem     *semaphore.Weighted

	spawned atomic.Int64
	inline  atomic.Int64
}

// NewForkJoin creates a scheduler bounded to workers concurrent goroutines.
func NewForkJoin(workers int) *ForkJoin {
	workers = max(workers, 1)
	f := &ForkJoin{workers: workers}
	if workers > 1 {
		f.sem = semaphore.NewWeighted(int64(workers - 1))
	}
	return f
}

// Workers returns the concurrency bound.
func (f *ForkJoin) Workers() int {
	return f.workers
}

// Handle is the join side of a spawned task.
type Handle struct {
	done     chan struct{}
	panicVal any
}

// Spawn starts fn, on its own goroutine if a permit is free and inline
// otherwise. The returned handle must be joined.
func (f *ForkJoin) Spawn(fn func()) *Handle {
	h := &Handle{}
	if f.sem == nil || !f.sem.TryAcquire(1) {
		f.inline.Add(1)
		fn()
		return h
	}

	f.spawned.Add(1)
	h.done = make(chan struct{})
	go func() {
		defer close(h.done)
		defer f.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				h.panicVal = r
			}
		}()
		fn()
	}()
	return h
}

// Join blocks until the task finished. A panic raised by the task is
// re-raised on the joining goroutine.
func (h *Handle) Join() {
	if h.done != nil {
		<-h.done
	}
	if h.panicVal != nil {
		panic(h.panicVal)
	}
}

// Fork2 runs left and right as siblings and returns when both are done.
func (f *ForkJoin) Fork2(left, right func()) {
	h := f.Spawn(left)
	right()
	h.Join()
}

// Tasks returns how many tasks ran on their own goroutine and how many ran inline.
func (f *ForkJoin) Tasks() (spawned, inline int64) {
	return f.spawned.Load(), f.inline.Load()
}
