package session

import (
	"context"
	"sync"
)

// Worker runs one job at a time off the frame loop. While a job is in flight
// new submissions are refused, so a slow classifier drops frames instead of
// queueing them. Completed results are handed back by Poll.
type Worker[In, Out any] struct {
	fn func(context.Context, In) Out

	mu     sync.Mutex
	busy   bool
	fresh  bool
	has    bool
	latest Out
	wg     sync.WaitGroup
}

// NewWorker creates a worker around fn.
func NewWorker[In, Out any](fn func(context.Context, In) Out) *Worker[In, Out] {
	return &Worker[In, Out]{fn: fn}
}

// Submit starts fn(ctx, in) unless a job is already running.
// It reports whether the job was accepted.
func (w *Worker[In, Out]) Submit(ctx context.Context, in In) bool {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return false
	}
	w.busy = true
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		out := w.fn(ctx, in)

		w.mu.Lock()
		w.latest = out
		w.has = true
		w.fresh = true
		w.busy = false
		w.mu.Unlock()
	}()
	return true
}

// Poll returns the most recent completed result. fresh is true the first time
// a result is returned; ok is false until any job has completed.
func (w *Worker[In, Out]) Poll() (out Out, fresh, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fresh = w.fresh
	w.fresh = false
	return w.latest, fresh, w.has
}

// Busy reports whether a job is in flight.
func (w *Worker[In, Out]) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Wait blocks until the in-flight job, if any, has finished.
func (w *Worker[In, Out]) Wait() {
	w.wg.Wait()
}
