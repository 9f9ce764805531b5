package executor

import (
	"sync"
	"testing"
	"time"

	"github.com/driftloop/async/task"
)

func TestSubmitRunsAllClosures(t *testing.T) {
	ex := New(4)
	defer ex.Shutdown()

	const n = 100
	var mu sync.Mutex
	seen := make(map[int]bool, n)
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		i := i
		ex.Submit(func() {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for closures to run")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != n {
		t.Fatalf("got %d closures run, want %d", len(seen), n)
	}
}

func TestSubmitPanicDoesNotKillWorker(t *testing.T) {
	var panics int
	var mu sync.Mutex
	ex := New(1, WithPanicHandler(func(recovered any) {
		mu.Lock()
		panics++
		mu.Unlock()
	}))
	defer ex.Shutdown()

	done := make(chan struct{})
	ex.Submit(func() { panic("boom") })
	ex.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker appears dead after a panic")
	}

	mu.Lock()
	defer mu.Unlock()
	if panics != 1 {
		t.Fatalf("got %d recovered panics, want 1", panics)
	}
}

func TestShutdownDropsQueuedWork(t *testing.T) {
	ex := New(1)

	block := make(chan struct{})
	started := make(chan struct{})
	ex.Submit(func() {
		close(started)
		<-block
	})
	<-started

	ran := false
	ex.Submit(func() { ran = true })

	shutdownDone := make(chan struct{})
	go func() {
		ex.Shutdown()
		close(shutdownDone)
	}()

	close(block)

	select {
	case <-shutdownDone:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}

	if ran {
		t.Fatal("queued closure ran after Shutdown; expected it to be dropped")
	}
}

func TestRunOn(t *testing.T) {
	ex := New(2)
	defer ex.Shutdown()

	tk := task.New(func(c *task.Ctx) (int, error) {
		return 21, nil
	})
	fut := RunOn(ex, tk)
	v, err := fut.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 21 {
		t.Fatalf("got %d, want 21", v)
	}
}

func TestYieldTo(t *testing.T) {
	ex := New(2)
	defer ex.Shutdown()

	tk := task.New(func(c *task.Ctx) (int, error) {
		sum := 1
		YieldTo(c, ex)
		sum += 41
		return sum, nil
	})

	done := make(chan struct{})
	var v int
	var err error
	go func() {
		v, err = tk.SyncWait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never completed after YieldTo")
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func TestDetach(t *testing.T) {
	ex := New(1)
	defer ex.Shutdown()

	ran := make(chan struct{})
	tk := task.New(func(c *task.Ctx) (task.Unit, error) {
		close(ran)
		return task.Unit{}, nil
	})
	Detach(ex, tk)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("detached task never ran")
	}
}
