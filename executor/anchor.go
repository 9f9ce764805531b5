package executor

import (
	"fmt"
	"sync/atomic"

	"github.com/driftloop/async/task"
)

// Future is the handle returned by RunOn: a Task driven to completion on
// an Executor worker rather than on the calling goroutine.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error

	// executed guards against the submitted closure running the Task
	// twice — the same defensive compare-and-swap the original source's
	// async_run uses around its own sync_wait call.
	executed atomic.Bool
}

// Wait blocks until the underlying Task completes and returns its
// result.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// RunOn submits t to ex, driving it to completion via SyncWait on
// whichever worker goroutine picks it up, and returns a Future to
// observe the result. Because SyncWait blocks on the Task's own
// completion signal rather than busy-resuming it, a Task submitted this
// way may suspend across a goroutine boundary (onto the Reactor, say)
// without corrupting its result.
func RunOn[T any](ex *Executor, t *task.Task[T]) *Future[T] {
	fut := &Future[T]{done: make(chan struct{})}
	ex.Submit(func() {
		if !fut.executed.CompareAndSwap(false, true) {
			return
		}
		fut.value, fut.err = t.SyncWait()
		close(fut.done)
	})
	return fut
}

// Detach submits t to ex and discards its result once it completes. Any
// panic from t's body was already converted to an error by Task's own
// recovery, and any panic from the closure itself is handled by the
// Executor's worker loop.
func Detach[T any](ex *Executor, t *task.Task[T]) {
	var executed atomic.Bool
	ex.Submit(func() {
		if !executed.CompareAndSwap(false, true) {
			return
		}
		t.SyncWait()
	})
}

// YieldTo suspends the Task frame identified by c and reschedules its
// wake-up onto ex, so that execution resumes on one of ex's worker
// goroutines instead of wherever c was last running. Calling YieldTo
// from a body that is already running on an Executor worker (including
// ex itself) produces no deadlock but defeats its own purpose — the
// frame is simply re-enqueued on the same pool it is already running
// under — so it is meant to be called from a frame running elsewhere
// (the Reactor thread, or the goroutine that called SyncWait directly)
// to hand off onto the pool.
func YieldTo(c *task.Ctx, ex *Executor) {
	if c == nil {
		panic(fmt.Errorf("executor: YieldTo called with nil Ctx"))
	}
	c.Park(func(wake func()) {
		ex.Submit(wake)
	})
}
