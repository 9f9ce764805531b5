package gen

import (
	"errors"
	"fmt"

	"github.com/driftloop/async/coro"
)

// ErrNullFrame names the null-frame condition of a Generator. Next and
// Value do not return it: on a Generator with no frame, Next reports false
// and Value returns the zero value.
var ErrNullFrame = errors.New("gen: null frame")

// Releasable is implemented by yielded values that own a resource tied to
// their slot in the generator rather than to the value's own lifetime —
// for example a buffer borrowed from a pool. Next calls Release on the
// previous slot's value before installing the next one, and Close, after
// destroying the underlying Frame, releases whatever is left in the slot
// when a generator is abandoned mid-sequence.
type Releasable interface {
	Release()
}

// Ctx is threaded through a Generator's body, giving it the two yield
// forms.
type Ctx[T any] struct {
	g       *Generator[T]
	suspend func()
}

// Yield installs a copy of v as the generator's current value and
// suspends until the next Next call. The generator owns this copy; the
// caller of Yield may go on mutating v freely afterward.
func (c *Ctx[T]) Yield(v T) {
	c.g.release()
	c.g.value = v
	c.g.hasRef = false
	c.g.populated = true
	c.suspend()
}

// YieldRef installs p itself as the generator's current value slot,
// rather than a copy, and suspends until the next Next call. p must
// remain valid only until the body is resumed again — typically it
// points at a frame-local variable the body goes on to overwrite or let
// go out of scope. Value dereferences p lazily, so the caller of Next
// must consume the value before calling Next again.
func (c *Ctx[T]) YieldRef(p *T) {
	c.g.release()
	c.g.ref = p
	c.g.hasRef = true
	c.g.populated = true
	c.suspend()
}

// Body is the function supplied when constructing a Generator.
type Body[T any] func(c *Ctx[T]) error

// Generator produces a sequence of T, one per Next call, until its body
// returns (or panics, which Next surfaces as an error).
type Generator[T any] struct {
	frame *coro.Frame

	value     T
	ref       *T
	hasRef    bool
	populated bool

	err  error
	done bool
}

// New constructs a Generator from a coroutine-bodied function. Like
// Task, construction does not run the body — the first Next call does.
func New[T any](body Body[T]) *Generator[T] {
	g := &Generator[T]{}
	g.frame = coro.New(func(suspend func()) {
		ctx := &Ctx[T]{g: g, suspend: suspend}
		err := runBody(body, ctx)
		g.release()
		g.err, g.done = err, true
	})
	return g
}

func runBody[T any](body Body[T], ctx *Ctx[T]) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if pe, ok := p.(error); ok && errors.Is(pe, coro.ErrDestroyed) {
				panic(p)
			}
			err = fmt.Errorf("gen: unhandled panic in body: %v", p)
		}
	}()
	return body(ctx)
}

// release drops whatever is currently installed in the slot, calling
// Release on it first if it implements Releasable. The slot is empty
// until the first Yield/YieldRef call, so a never-populated slot is
// skipped rather than asking a zero value to release itself.
func (g *Generator[T]) release() {
	if !g.populated {
		return
	}
	if g.hasRef {
		if r, ok := any(g.ref).(Releasable); ok {
			r.Release()
		} else if r, ok := any(*g.ref).(Releasable); ok {
			r.Release()
		}
		g.ref = nil
		g.hasRef = false
		g.populated = false
		return
	}
	var zero T
	if r, ok := any(g.value).(Releasable); ok {
		r.Release()
	}
	g.value = zero
	g.populated = false
}

// Next resumes the generator until it yields its next value or returns.
// It reports whether a value is now available; false means the sequence
// is finished (check Err for why).
func (g *Generator[T]) Next() bool {
	if g.frame == nil || g.done {
		return false
	}
	g.frame.Resume()
	return !g.done
}

// Value returns the most recently yielded item. Calling it before the
// first successful Next, or after Next returns false, returns the zero
// value.
func (g *Generator[T]) Value() T {
	if g.hasRef {
		return *g.ref
	}
	return g.value
}

// Err returns the error the body returned or panicked with, once the
// sequence is finished. It is nil while the sequence is still producing
// values, and nil if the body completed normally.
func (g *Generator[T]) Err() error {
	return g.err
}

// Done reports whether the sequence has finished.
func (g *Generator[T]) Done() bool {
	return g.frame == nil || g.done
}

// Close abandons the generator mid-sequence, destroying its frame. Any
// value left in the slot is released. Close is a no-op if the sequence
// already finished.
func (g *Generator[T]) Close() {
	if g.frame == nil || g.done {
		return
	}
	g.frame.Destroy()
	g.release()
	g.done = true
}
