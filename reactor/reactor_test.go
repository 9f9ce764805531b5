package reactor

import (
	"testing"
	"time"
)

func TestAfterFiresOnce(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	go r.Run()
	defer r.Stop()

	fired := make(chan struct{}, 2)
	r.After(10*time.Millisecond, func() {
		fired <- struct{}{}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}

	select {
	case <-fired:
		t.Fatal("timer fired a second time")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	go r.Run()
	defer r.Stop()

	fired := make(chan struct{}, 1)
	id := r.After(50*time.Millisecond, func() {
		fired <- struct{}{}
	})
	if !r.Cancel(id) {
		t.Fatal("Cancel reported timer already fired")
	}

	select {
	case <-fired:
		t.Fatal("canceled timer fired anyway")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestTimerOrdering(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	go r.Run()
	defer r.Stop()

	var order []int
	done := make(chan struct{})

	r.After(30*time.Millisecond, func() {
		order = append(order, 3)
		close(done)
	})
	r.After(10*time.Millisecond, func() { order = append(order, 1) })
	r.After(20*time.Millisecond, func() { order = append(order, 2) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timers never completed")
	}

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("got order %v, want [1 2 3]", order)
	}
}
