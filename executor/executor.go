package executor

import (
	"sync"

	"github.com/eapache/queue"
)

// Executor is a fixed pool of worker goroutines draining one shared FIFO
// queue of closures.
type Executor struct {
	mu       sync.Mutex
	cond     *sync.Cond
	q        *queue.Queue
	shutdown bool
	wg       sync.WaitGroup

	onPanic func(recovered any)
}

// Option configures an Executor at construction time.
type Option func(*Executor)

// WithPanicHandler installs a callback invoked (instead of silent
// discard) whenever a submitted closure panics. The default behavior
// swallows the panic without logging.
func WithPanicHandler(fn func(recovered any)) Option {
	return func(ex *Executor) {
		ex.onPanic = fn
	}
}

// New starts an Executor with the given fixed number of worker
// goroutines. A workers value below 1 is treated as 1.
func New(workers int, opts ...Option) *Executor {
	if workers < 1 {
		workers = 1
	}
	ex := &Executor{q: queue.New()}
	ex.cond = sync.NewCond(&ex.mu)
	for _, opt := range opts {
		opt(ex)
	}

	ex.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go ex.workerLoop()
	}
	return ex
}

// Submit appends fn to the shared queue. It is a no-op once Shutdown has
// been called.
func (ex *Executor) Submit(fn func()) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if ex.shutdown {
		return
	}
	ex.q.Add(fn)
	ex.cond.Signal()
}

// Shutdown stops accepting new work, drops everything still queued, and
// blocks until every worker has exited its current closure and returned.
func (ex *Executor) Shutdown() {
	ex.mu.Lock()
	ex.shutdown = true
	for ex.q.Length() > 0 {
		ex.q.Remove()
	}
	ex.cond.Broadcast()
	ex.mu.Unlock()

	ex.wg.Wait()
}

func (ex *Executor) workerLoop() {
	defer ex.wg.Done()
	for {
		ex.mu.Lock()
		for ex.q.Length() == 0 && !ex.shutdown {
			ex.cond.Wait()
		}
		if ex.q.Length() == 0 {
			ex.mu.Unlock()
			return
		}
		fn := ex.q.Remove().(func())
		ex.mu.Unlock()

		ex.runSafely(fn)
	}
}

func (ex *Executor) runSafely(fn func()) {
	defer func() {
		if p := recover(); p != nil && ex.onPanic != nil {
			ex.onPanic(p)
		}
	}()
	fn()
}
