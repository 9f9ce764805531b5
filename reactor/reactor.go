package reactor

import (
	"sync"
	"time"
)

const defaultPollTimeout = 100 * time.Millisecond

// fdInterest tracks the continuations registered for one file descriptor.
// Every fd is polled edge-triggered (EPOLLET on Linux), so a direction
// fires its continuation exactly once per readiness transition — callers
// are expected to retry their syscall until EAGAIN before registering
// again, not assume the continuation will re-fire while data remains
// available. epoll reports readability and writability as two bits of
// the same per-fd event mask, so one entry per fd naturally enforces the
// single-continuation-per-direction invariant: registering a new read
// continuation while one is already pending simply replaces it.
type fdInterest struct {
	read  func()
	write func()
}

// Reactor is a single-threaded readiness multiplexer: one goroutine calls
// Run, which polls for I/O readiness and fires due timers, invoking
// continuations inline on that goroutine. Registration methods
// (RegisterRead, RegisterWrite, Unregister, After, Cancel) are safe to
// call from any goroutine.
type Reactor struct {
	mu        sync.Mutex
	interests map[int]*fdInterest
	ready     []func()
	timers    *timerHeap
	closed    bool

	epfd int
}

// New creates a Reactor. Its epoll instance is opened but Run must be
// called (typically from its own goroutine) to start servicing it.
func New() (*Reactor, error) {
	r := &Reactor{
		interests: make(map[int]*fdInterest),
		timers:    newTimerHeap(),
	}
	fd, err := epollCreate()
	if err != nil {
		return nil, err
	}
	r.epfd = fd
	return r, nil
}

// RegisterRead arranges for cont to run, once, the next time fd becomes
// readable. A second call before that fires replaces the pending
// continuation rather than queuing a second one.
func (r *Reactor) RegisterRead(fd int, cont func()) error {
	return r.register(fd, cont, nil)
}

// RegisterWrite arranges for cont to run, once, the next time fd becomes
// writable.
func (r *Reactor) RegisterWrite(fd int, cont func()) error {
	return r.register(fd, nil, cont)
}

func (r *Reactor) register(fd int, readCont, writeCont func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, existed := r.interests[fd]
	if !existed {
		it = &fdInterest{}
		r.interests[fd] = it
	}
	if readCont != nil {
		it.read = readCont
	}
	if writeCont != nil {
		it.write = writeCont
	}

	mask := interestMask(it)
	if !existed {
		return r.epollAdd(fd, mask)
	}
	return r.epollModify(fd, mask)
}

// Unregister drops any pending continuations for fd and removes it from
// the poll set.
func (r *Reactor) Unregister(fd int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.interests[fd]; !ok {
		return nil
	}
	delete(r.interests, fd)
	return r.epollDel(fd)
}

func interestMask(it *fdInterest) uint32 {
	var mask uint32
	if it.read != nil {
		mask |= epollReadMask
	}
	if it.write != nil {
		mask |= epollWriteMask
	}
	return mask
}

// After schedules cb to run once, on the Reactor's goroutine, no sooner
// than d from now. It returns an id usable with Cancel.
func (r *Reactor) After(d time.Duration, cb func()) TimerID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timers.add(time.Now().Add(d), cb)
}

// Cancel removes a pending timer registered with After, reporting
// whether it was still pending (false if it already fired or never
// existed).
func (r *Reactor) Cancel(id TimerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timers.cancel(id)
}

// Stop asks Run to return after its current poll cycle. It does not
// interrupt an in-flight poll early; Run notices within one
// defaultPollTimeout window at most.
func (r *Reactor) Stop() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// Run services the Reactor until Stop is called. It must be driven from
// a single goroutine for the lifetime of the Reactor.
func (r *Reactor) Run() error {
	for {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return r.epollClose()
		}
		timeout := defaultPollTimeout
		if deadline, ok := r.timers.nextDeadline(); ok {
			if until := time.Until(deadline); until < timeout {
				if until < 0 {
					until = 0
				}
				timeout = until
			}
		}
		r.mu.Unlock()

		readyFDs, err := r.epollWait(timeout)
		if err != nil {
			return err
		}

		r.mu.Lock()
		for _, rev := range readyFDs {
			it, ok := r.interests[rev.fd]
			if !ok {
				continue
			}
			if rev.readable && it.read != nil {
				cont := it.read
				it.read = nil
				r.ready = append(r.ready, cont)
			}
			if rev.writable && it.write != nil {
				cont := it.write
				it.write = nil
				r.ready = append(r.ready, cont)
			}
			// Not auto-rearmed: a fired direction stays cleared until the
			// caller registers again. Update the epoll mask to match.
			if it.read == nil && it.write == nil {
				delete(r.interests, rev.fd)
				_ = r.epollDel(rev.fd)
			} else {
				_ = r.epollModify(rev.fd, interestMask(it))
			}
		}

		due := r.timers.popDue(time.Now())
		for _, e := range due {
			r.ready = append(r.ready, e.cb)
		}

		batch := r.ready
		r.ready = nil
		r.mu.Unlock()

		for _, cont := range batch {
			runSafely(cont)
		}
	}
}

func runSafely(cont func()) {
	defer func() {
		recover()
	}()
	cont()
}
