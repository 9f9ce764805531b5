// Package netio implements AsyncSocket: a nonblocking TCP socket facade
// whose operations return Tasks instead of blocking. Each operation
// (Accept, Connect, Read, Write) retries its underlying syscall in a
// loop, and on EAGAIN suspends the calling Task's frame by registering
// its continuation with a Reactor for the relevant readiness direction —
// there is no recursive retry-via-resubmission, just a plain loop that
// suspends and is resumed once by the Reactor when the fd becomes ready.
package netio
