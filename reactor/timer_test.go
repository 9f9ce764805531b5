package reactor

import (
	"testing"
	"time"
)

func TestTimerHeapTieBreaksByID(t *testing.T) {
	h := newTimerHeap()
	deadline := time.Now().Add(time.Hour)

	var ids []TimerID
	for i := 0; i < 5; i++ {
		ids = append(ids, h.add(deadline, func() {}))
	}

	due := h.popDue(deadline)
	if len(due) != 5 {
		t.Fatalf("got %d due timers, want 5", len(due))
	}
	for i, e := range due {
		if e.id != ids[i] {
			t.Fatalf("entry %d has id %d, want %d (registration order)", i, e.id, ids[i])
		}
	}
}
