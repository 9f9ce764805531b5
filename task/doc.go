// Package task implements Task[T]: a lazy, move-by-convention handle to a
// coroutine frame that produces exactly one T or an error.
//
// A Task is created by New, which does not run the body — the frame is
// initially suspended, so construction never executes the body. Awaiting
// one Task from inside another (via the package-level Await function,
// since Go methods cannot introduce new type parameters) installs the
// calling Task's resumption as the awaited Task's stored continuation,
// then drives the awaited frame forward. When the awaited frame reaches
// its terminal suspension, it resumes the stored continuation directly —
// a symmetric hand-off, not a resume-and-return — so awaiting a chain of
// Tasks costs O(1) frames regardless of depth.
//
// SyncWait drives a Task to completion on the calling goroutine: it
// resumes the frame once, then — if that single resume does not finish
// it — blocks until the frame's own completion signal fires. A Task may
// freely suspend across a thread boundary (a Reactor registration, an
// Executor worker) under SyncWait; the frame's continuation, not
// SyncWait, is the only thing that ever resumes it again. Every suspend
// site in this module (Await, netio's readiness waits, fileio's worker
// dispatch) goes through Ctx.Park, which is what makes that guarantee
// hold regardless of which goroutine eventually fires the wake-up.
package task
