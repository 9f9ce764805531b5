// Package reactor provides a single-threaded readiness multiplexer: one
// goroutine drives Run, which polls epoll for I/O readiness, fires due
// timers from a heap-ordered timer store, and invokes the resulting
// continuations inline. Registration (RegisterRead, RegisterWrite,
// Unregister, After, Cancel) is safe to call from any goroutine; only
// Run itself is meant to be single-owner.
//
// There is no wake-fd: Run's poll call is bounded to at most
// defaultPollTimeout, so a newly registered short timer or a call to
// Stop is noticed within that window rather than immediately.
package reactor
