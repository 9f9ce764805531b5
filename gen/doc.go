// Package gen implements Generator[T]: a lazy coroutine that produces a
// sequence of T values one at a time, paused between each.
//
// A Generator is driven with Next, which resumes the body until it
// either yields a value or returns. Value retrieves the most recently
// yielded item. The body yields with one of two methods on the Ctx it
// receives: Yield copies v into the generator's slot, while YieldRef
// installs a pointer to a frame-local variable directly — the caller
// must not retain that pointer past the next call to Next, since the
// body is free to overwrite or destroy it once resumed. This mirrors
// the original source's lvalue/rvalue yield distinction, carried over
// as two explicit methods rather than folded into one, so a generator
// whose yielded values implement Releasable still gets exactly the
// release-on-overwrite and release-on-teardown behavior that
// distinction was built for.
package gen
