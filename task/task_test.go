package task

import (
	"errors"
	"testing"
)

func TestSyncWaitImmediate(t *testing.T) {
	tk := New(func(c *Ctx) (int, error) {
		return 42, nil
	})
	v, err := tk.SyncWait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func TestSyncWaitError(t *testing.T) {
	sentinel := errors.New("boom")
	tk := New(func(c *Ctx) (int, error) {
		return 0, sentinel
	})
	_, err := tk.SyncWait()
	if !errors.Is(err, sentinel) {
		t.Fatalf("got %v, want %v", err, sentinel)
	}
}

func TestSyncWaitNilTask(t *testing.T) {
	var tk *Task[int]
	_, err := tk.SyncWait()
	if !errors.Is(err, ErrNullFrame) {
		t.Fatalf("got %v, want ErrNullFrame", err)
	}
}

func TestAwaitChain(t *testing.T) {
	leaf := New(func(c *Ctx) (int, error) {
		return 7, nil
	})
	mid := New(func(c *Ctx) (int, error) {
		v, err := Await(c, leaf)
		if err != nil {
			return 0, err
		}
		return v * 2, nil
	})
	top := New(func(c *Ctx) (int, error) {
		v, err := Await(c, mid)
		if err != nil {
			return 0, err
		}
		return v + 1, nil
	})

	v, err := top.SyncWait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 15 {
		t.Fatalf("got %d, want 15", v)
	}
}

func TestAwaitDeepChainBoundedStack(t *testing.T) {
	const depth = 10000

	var build func(n int) *Task[int]
	build = func(n int) *Task[int] {
		if n == 0 {
			return New(func(c *Ctx) (int, error) { return 0, nil })
		}
		inner := build(n - 1)
		return New(func(c *Ctx) (int, error) {
			v, err := Await(c, inner)
			if err != nil {
				return 0, err
			}
			return v + 1, nil
		})
	}

	top := build(depth)
	v, err := top.SyncWait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != depth {
		t.Fatalf("got %d, want %d", v, depth)
	}
}

func TestBodyPanicBecomesError(t *testing.T) {
	tk := New(func(c *Ctx) (int, error) {
		panic("kaboom")
	})
	_, err := tk.SyncWait()
	if err == nil {
		t.Fatal("expected error from recovered panic, got nil")
	}
}

func TestAwaitPropagatesError(t *testing.T) {
	sentinel := errors.New("leaf failed")
	leaf := New(func(c *Ctx) (int, error) {
		return 0, sentinel
	})
	top := New(func(c *Ctx) (string, error) {
		_, err := Await(c, leaf)
		if err != nil {
			return "", err
		}
		return "unreachable", nil
	})

	_, err := top.SyncWait()
	if !errors.Is(err, sentinel) {
		t.Fatalf("got %v, want %v", err, sentinel)
	}
}

func TestAwaitNullTask(t *testing.T) {
	top := New(func(c *Ctx) (int, error) {
		var nilTask *Task[int]
		return Await(c, nilTask)
	})
	_, err := top.SyncWait()
	if !errors.Is(err, ErrNullFrame) {
		t.Fatalf("got %v, want ErrNullFrame", err)
	}
}
