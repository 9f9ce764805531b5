package gen

import (
	"testing"
)

func TestFibonacciFirstEightTerms(t *testing.T) {
	fib := New(func(c *Ctx[int]) error {
		a, b := 0, 1
		for {
			c.Yield(a)
			a, b = b, a+b
		}
	})

	want := []int{0, 1, 1, 2, 3, 5, 8, 13}
	got := make([]int, 0, len(want))
	for i := 0; i < len(want); i++ {
		if !fib.Next() {
			t.Fatalf("generator finished early at term %d: %v", i, fib.Err())
		}
		got = append(got, fib.Value())
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("term %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestGeneratorFinishesWithError(t *testing.T) {
	g := New(func(c *Ctx[int]) error {
		c.Yield(1)
		return errBoom
	})

	if !g.Next() || g.Value() != 1 {
		t.Fatalf("expected first value 1")
	}
	if g.Next() {
		t.Fatalf("expected sequence to finish")
	}
	if g.Err() != errBoom {
		t.Fatalf("got %v, want errBoom", g.Err())
	}
	if !g.Done() {
		t.Fatal("expected Done() true after finishing")
	}
}

type releaseCounter struct {
	n *int
}

func (r *releaseCounter) Release() {
	*r.n += 1
}

func TestYieldRefReleasedOnOverwrite(t *testing.T) {
	releases := 0

	g := New(func(c *Ctx[*releaseCounter]) error {
		for i := 0; i < 3; i++ {
			v := &releaseCounter{n: &releases}
			c.YieldRef(&v)
		}
		return nil
	})

	count := 0
	for g.Next() {
		count++
	}
	if count != 3 {
		t.Fatalf("got %d values, want 3", count)
	}
	// Each of the first two slots is released when overwritten by the
	// next YieldRef; the third is released when the generator finishes.
	if releases != 3 {
		t.Fatalf("got %d releases, want 3", releases)
	}
}

func TestMixedYieldAndYieldRef(t *testing.T) {
	g := New(func(c *Ctx[int]) error {
		c.Yield(1)
		local := 2
		c.YieldRef(&local)
		local = 3
		c.Yield(99)
		return nil
	})

	want := []int{1, 2, 99}
	got := make([]int, 0, 3)
	for g.Next() {
		got = append(got, g.Value())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCloseAbandonsSuspendedGenerator(t *testing.T) {
	g := New(func(c *Ctx[int]) error {
		n := 0
		for {
			c.Yield(n)
			n++
		}
	})

	if !g.Next() {
		t.Fatalf("expected first value, got Err: %v", g.Err())
	}

	g.Close()
	if !g.Done() {
		t.Fatal("expected Done() true after Close")
	}
	if g.Err() != nil {
		t.Fatalf("expected nil Err after a clean abandon, got %v", g.Err())
	}
}

func TestCloseReleasesSlotOnAbandon(t *testing.T) {
	releases := 0
	g := New(func(c *Ctx[*releaseCounter]) error {
		for {
			v := &releaseCounter{n: &releases}
			c.YieldRef(&v)
		}
	})

	if !g.Next() {
		t.Fatalf("expected first value, got Err: %v", g.Err())
	}
	g.Close()

	if releases != 1 {
		t.Fatalf("got %d releases, want 1 (slot released on abandon)", releases)
	}
}

var errBoom = &sentinelErr{"boom"}

type sentinelErr struct{ msg string }

func (e *sentinelErr) Error() string { return e.msg }
