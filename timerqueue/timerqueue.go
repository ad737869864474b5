// Package timerqueue provides a min-heap of deadlines, each carrying a
// Notifier to wake when its deadline elapses, so any host loop driving a
// taskslab.Scheduler can use it to wake tasks that registered a timeout,
// without the scheduler core itself knowing anything about time.
package timerqueue

import (
	"container/heap"
	"time"

	"github.com/joeycumines/go-taskslab"
)

// entry is one scheduled wake, identified by a monotonically increasing
// sequence number so Cancel can find it even if two entries share a
// deadline.
type entry struct {
	when     time.Time
	notifier taskslab.Notifier
	seq      uint64
	index    int // heap index, maintained by container/heap callbacks
}

// heapData implements heap.Interface over []*entry.
type heapData []*entry

func (h heapData) Len() int           { return len(h) }
func (h heapData) Less(i, j int) bool { return h[i].when.Before(h[j].when) }
func (h heapData) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *heapData) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *heapData) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Queue is a min-heap of pending deadlines. Not safe for concurrent use;
// intended to be driven from the same single goroutine that owns the
// taskslab.Scheduler it feeds.
type Queue struct {
	data    heapData
	nextSeq uint64
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Len returns the number of pending deadlines.
func (q *Queue) Len() int { return q.data.Len() }

// Token identifies a scheduled entry for Cancel.
type Token struct {
	seq   uint64
	entry *entry
}

// Schedule arranges for notifier.WakeByRef to be called (by the caller's
// own DrainDue loop — this package does not run goroutines or timers
// itself) once when has elapsed. Returns a Token usable with Cancel.
func (q *Queue) Schedule(when time.Time, notifier taskslab.Notifier) Token {
	q.nextSeq++
	e := &entry{when: when, notifier: notifier, seq: q.nextSeq}
	heap.Push(&q.data, e)
	return Token{seq: e.seq, entry: e}
}

// Cancel removes a previously scheduled entry, if it has not already
// fired, and releases the refcount unit its stored Notifier holds.
// Returns false if the token no longer refers to a live entry.
func (q *Queue) Cancel(t Token) bool {
	if t.entry.index < 0 || t.entry.seq != t.seq {
		return false
	}
	heap.Remove(&q.data, t.entry.index)
	t.entry.notifier.Close()
	return true
}

// Peek returns the earliest deadline without removing it, and whether
// the queue is non-empty.
func (q *Queue) Peek() (time.Time, bool) {
	if q.data.Len() == 0 {
		return time.Time{}, false
	}
	return q.data[0].when, true
}

// DrainDue pops and wakes every entry whose deadline is at or before
// now, returning how many were fired. The caller is expected to invoke
// this from its idle-park loop, ahead of calling Scheduler.Poll.
func (q *Queue) DrainDue(now time.Time) int {
	fired := 0
	for q.data.Len() > 0 && !q.data[0].when.After(now) {
		e := heap.Pop(&q.data).(*entry)
		e.notifier.WakeByRef()
		e.notifier.Close()
		fired++
	}
	return fired
}
