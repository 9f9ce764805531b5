package reactor

import (
	"container/heap"
	"time"
)

// TimerID identifies a pending timer registered with After, for use with
// Cancel.
type TimerID uint64

type timerEntry struct {
	id       TimerID
	deadline time.Time
	cb       func()
	index    int // position in the heap, maintained by container/heap
}

// timerHeap is a min-heap ordered by deadline, with an id->index map kept
// alongside it so Cancel can find and remove an arbitrary entry in
// O(log n) rather than a linear scan.
type timerHeap struct {
	entries []*timerEntry
	byID    map[TimerID]*timerEntry
	nextID  TimerID
}

func newTimerHeap() *timerHeap {
	return &timerHeap{byID: make(map[TimerID]*timerEntry)}
}

func (h *timerHeap) Len() int { return len(h.entries) }

func (h *timerHeap) Less(i, j int) bool {
	di, dj := h.entries[i].deadline, h.entries[j].deadline
	if !di.Equal(dj) {
		return di.Before(dj)
	}
	return h.entries[i].id < h.entries[j].id
}

func (h *timerHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.entries[i].index = i
	h.entries[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(h.entries)
	h.entries = append(h.entries, e)
}

func (h *timerHeap) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	h.entries = old[:n-1]
	return e
}

// add schedules cb to run at deadline and returns its id.
func (h *timerHeap) add(deadline time.Time, cb func()) TimerID {
	h.nextID++
	id := h.nextID
	e := &timerEntry{id: id, deadline: deadline, cb: cb}
	heap.Push(h, e)
	h.byID[id] = e
	return id
}

// cancel removes the timer with the given id, reporting whether it was
// still pending.
func (h *timerHeap) cancel(id TimerID) bool {
	e, ok := h.byID[id]
	if !ok {
		return false
	}
	heap.Remove(h, e.index)
	delete(h.byID, id)
	return true
}

// popDue removes and returns every timer whose deadline is <= now, in
// deadline order.
func (h *timerHeap) popDue(now time.Time) []*timerEntry {
	var due []*timerEntry
	for h.Len() > 0 && !h.entries[0].deadline.After(now) {
		e := heap.Pop(h).(*timerEntry)
		delete(h.byID, e.id)
		due = append(due, e)
	}
	return due
}

// nextDeadline reports the soonest pending deadline, if any.
func (h *timerHeap) nextDeadline() (time.Time, bool) {
	if h.Len() == 0 {
		return time.Time{}, false
	}
	return h.entries[0].deadline, true
}
