// Package executor implements a fixed-size worker pool draining a single
// shared FIFO queue of closures, the scheduling primitive that anchors a
// Task chain to real OS threads.
//
// Submissions are appended to a github.com/eapache/queue-backed FIFO
// under a mutex, and workers block on a sync.Cond until the queue is
// non-empty. There is no per-worker queue and no work-stealing: every
// worker drains the same shared queue in submission order, matching the
// reference thread pool this package is modeled on. A submitted closure
// that panics has its panic recovered by the worker loop rather than
// taking the worker down; the recovered value is passed to the handler
// installed with WithPanicHandler, or discarded if there is none.
package executor
