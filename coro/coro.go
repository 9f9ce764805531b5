// Package coro provides the low-level suspend/resume primitive that every
// other package in this module builds on: Task's await, Generator's yield,
// and the Reactor's continuation resumption all compile down to calls into
// this package.
//
// It links directly into the runtime's own coroutine-switch machinery
// (the same primitive that backs range-over-func), so a suspension really
// is a symmetric transfer of control between two execution contexts and
// not a goroutine parked on a channel receive. That keeps a deep chain of
// awaits bounded at O(1) frames: switching via the runtime primitive
// costs the same regardless of how many frames are chained, unlike a
// stack of blocked goroutines.
package coro

import (
	"errors"
	"sync"
	"unsafe"
)

// ErrDestroyed is the value a suspended Frame's body observes, as a panic,
// when Destroy is called on it. A body may recover it and return normally,
// or let it propagate unchanged; either way Destroy returns normally. Only
// a different panic raised while unwinding makes Destroy panic (see
// Destroy).
var ErrDestroyed = errors.New("coro: frame destroyed")

// coroutine is an opaque handle to a native Go coroutine instance, owned by
// the runtime.
type coroutine struct{}

//go:linkname newcoro runtime.newcoro
func newcoro(func(*coroutine)) *coroutine

//go:linkname coroswitch runtime.coroswitch
func coroswitch(*coroutine)

var _ unsafe.Pointer

// Frame is a single suspend/resume point, the unit Task and Generator
// promises are built from. A Frame is created suspended — its body does
// not run until the first call to Resume — and each Resume/suspend pair is
// one symmetric transfer between the resumer and the frame.
type Frame struct {
	// mu serializes Resume/Destroy: a Frame's continuation can legitimately
	// be handed to a different goroutine than the one that last resumed it
	// (a Reactor or Executor worker), so two callers racing to switch into
	// the same coroutine is a real possibility, not just a misuse bug. The
	// loser blocks here until the winner's coroswitch returns the frame to
	// a safe state instead of both entering coroswitch concurrently.
	mu   sync.Mutex
	c    *coroutine
	done bool
	perr error
}

// New creates a Frame whose body is fn. fn receives a suspend function:
// each call to suspend() parks the Frame until the next Resume. The body
// does not start running until the first call to Resume.
func New(fn func(suspend func())) *Frame {
	f := &Frame{}
	f.c = newcoro(func(c *coroutine) {
		defer func() {
			if !f.done {
				if p := recover(); p != nil {
					// If the in-flight panic is exactly the destroy marker
					// already stored in f.perr, the body let Destroy's own
					// panic propagate unchanged — leave f.perr as that
					// marker so Destroy's identity check (f.perr ==
					// destroying) sees a clean unwind and returns normally.
					// Anything else — a genuine panic, including one
					// raised by the body while unwinding from a destroy —
					// replaces f.perr so Resume/Destroy re-raise it.
					if pe, ok := p.(error); !ok || pe != f.perr {
						f.perr = newPanicError(p)
					}
				}
				f.done = true
			}
		}()

		suspend := func() {
			if f.done {
				panic(ErrDestroyed)
			}
			coroswitch(c)
			if f.perr != nil {
				panic(f.perr)
			}
		}

		fn(suspend)
	})
	return f
}

// Resume transfers control into the Frame's body (or back into its last
// suspension point) and runs until the next suspend call or until the body
// returns. It reports whether the Frame is still alive after the call. If
// the body ended via an unrecovered panic (including a prior Destroy whose
// ErrDestroyed panic escaped the body), Resume re-raises it.
func (f *Frame) Resume() (alive bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		if f.perr != nil {
			panic(f.perr)
		}
		return false
	}
	coroswitch(f.c)
	if f.done && f.perr != nil {
		panic(f.perr)
	}
	return !f.done
}

// Done reports whether the Frame's body has returned, normally or via
// panic.
func (f *Frame) Done() bool {
	return f.done
}

// Destroy forces the Frame to unwind: the currently suspended (or next)
// suspend call panics with ErrDestroyed, running any deferred cleanup in
// the body during the unwind. Destroy is idempotent — a second call on an
// already-finished Frame is a no-op.
//
// If the body recovers ErrDestroyed and returns normally, or lets that same
// panic propagate unchanged, Destroy returns normally. If the body panics
// with something else while unwinding, Destroy re-raises that panic —
// mirroring how a C++ coroutine_handle::destroy() run on a frame with
// non-trivial destructors can itself fail loudly.
//
// This is the only form of cancellation in this module: there is no
// cooperative cancellation token, only frame destruction.
func (f *Frame) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return
	}
	destroying := error(&destroyMarker{})
	f.perr = destroying
	coroswitch(f.c)
	if f.perr != nil && f.perr != destroying {
		panic(f.perr)
	}
}

// destroyMarker gives each Destroy call a unique identity so Destroy can
// tell whether f.perr was replaced (the body panicked with something else
// while unwinding) from the clean cases where f.perr still holds the
// marker: the body recovered it, or let it escape unchanged and New's
// deferred recover left f.perr as it was.
type destroyMarker struct{}

func (*destroyMarker) Error() string { return ErrDestroyed.Error() }

func (*destroyMarker) Unwrap() error { return ErrDestroyed }
