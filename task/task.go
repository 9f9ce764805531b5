package task

import (
	"errors"
	"fmt"
	"sync"

	"github.com/driftloop/async/coro"
)

// ErrNullFrame is returned when a Task with no frame (moved-from, or never
// constructed) is awaited or sync-waited. This is treated as a
// programmer error surfaced as an immediate returned error, not a panic.
var ErrNullFrame = errors.New("task: null frame")

// Ctx is threaded through a Task's body, giving it the suspend/resume
// machinery needed to await other Tasks or register for I/O readiness.
// A Ctx must not be retained past the body's return.
type Ctx struct {
	frame   *coro.Frame
	suspend func()
}

// Park registers the current frame's wake-up with register, then parks the
// frame until something calls the wake callback register was handed.
//
// register may invoke wake synchronously, before Park ever suspends (a
// completed sub-Task, a registration that failed outright), or it may be
// invoked later from an entirely different goroutine — an Executor worker
// finishing blocking I/O, or the Reactor thread noticing an fd is ready.
// Park is safe either way: if wake fires before the frame actually parks,
// Park simply returns without suspending; otherwise it suspends and wake
// resumes it exactly once, from whichever goroutine calls it. This is the
// only supported way to suspend a frame: a bare suspend-then-hope-someone-
// resumes-me pairing would race whenever the resumer runs on another
// goroutine and fires before the suspend happens.
func (c *Ctx) Park(register func(wake func())) {
	var mu sync.Mutex
	fired := false
	parked := false

	wake := func() {
		mu.Lock()
		if parked {
			parked = false
			mu.Unlock()
			c.frame.Resume()
			return
		}
		fired = true
		mu.Unlock()
	}

	register(wake)

	mu.Lock()
	if fired {
		mu.Unlock()
		return
	}
	parked = true
	mu.Unlock()

	c.suspend()
}

// Body is the function supplied when constructing a Task: it receives a
// Ctx for suspension and returns a value of T or an error.
type Body[T any] func(c *Ctx) (T, error)

// Task represents a pending or completed computation yielding one T.
// Tasks are move-only by convention: once passed to Await, SyncWait, or an
// Executor, the original Task should not be driven again concurrently.
type Task[T any] struct {
	frame *coro.Frame

	result T
	err    error
	done   bool

	// continuation is resumed exactly once, immediately after result/err
	// become populated, never before.
	continuation func()

	// completed is closed exactly once, right after done becomes true, so
	// SyncWait can block on it instead of re-resuming the frame to find
	// out whether it is done.
	completed chan struct{}
}

// New constructs a Task from a coroutine-bodied function. The body does
// not run until the Task is first driven (via Await, SyncWait, or an
// Executor) — construction only allocates the frame.
func New[T any](body Body[T]) *Task[T] {
	t := &Task[T]{completed: make(chan struct{})}
	t.frame = coro.New(func(suspend func()) {
		ctx := &Ctx{frame: t.frame, suspend: suspend}
		val, err := runBody(body, ctx)
		t.result, t.err, t.done = val, err, true
		close(t.completed)
		if t.continuation != nil {
			cont := t.continuation
			t.continuation = nil
			cont()
		}
	})
	return t
}

func runBody[T any](body Body[T], ctx *Ctx) (val T, err error) {
	defer func() {
		if p := recover(); p != nil {
			if pe, ok := p.(error); ok && errors.Is(pe, coro.ErrDestroyed) {
				panic(p)
			}
			err = fmt.Errorf("task: unhandled panic in body: %v", p)
		}
	}()
	return body(ctx)
}

// Done reports whether the Task's result slot has been populated.
func (t *Task[T]) Done() bool {
	return t == nil || t.frame == nil || t.done
}

// resume drives the frame one step, starting it on the first call.
func (t *Task[T]) resume() bool {
	return t.frame.Resume()
}

// Handle exposes the underlying frame identity, for adapter code that
// needs to key off a Task without depending on its value type.
func (t *Task[T]) Handle() *coro.Frame {
	return t.frame
}

// SyncWait drives the frame on the calling goroutine: it resumes the
// frame once, starting it if this is the first call, and — if that single
// resume does not finish the Task — blocks until whatever the Task is
// actually waiting on (a Reactor readiness event, an Executor worker)
// completes it and signals completed. It never resumes the frame a second
// time itself; the frame's own continuation chain is the only thing
// allowed to do that once it has suspended.
func (t *Task[T]) SyncWait() (T, error) {
	if t == nil || t.frame == nil {
		var zero T
		return zero, ErrNullFrame
	}
	if !t.done {
		t.resume()
	}
	if !t.done {
		<-t.completed
	}
	return t.result, t.err
}

// Await awaits Task t from inside another Task's body (identified by c).
// It is a free function, not a method, because Go forbids a method from
// introducing a type parameter distinct from its receiver's.
//
// If t is nil or already done, Await returns immediately with its result.
// Otherwise t is driven forward and — if t does not complete
// synchronously within that call — the calling frame parks until t's
// completion (possibly reported from a different goroutine entirely: the
// Reactor thread, an Executor worker) resumes it.
func Await[T any](c *Ctx, t *Task[T]) (T, error) {
	var zero T
	if t == nil || t.frame == nil {
		return zero, ErrNullFrame
	}
	if t.done {
		return t.result, t.err
	}

	c.Park(func(wake func()) {
		t.continuation = wake
		t.resume()
	})

	return t.result, t.err
}

// Unit is the zero-size result type for Tasks whose body produces no
// value, mirroring Task<void> in the original source.
type Unit = struct{}
