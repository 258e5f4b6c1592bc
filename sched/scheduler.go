// Package sched is a single-threaded cooperative scheduler. Timers never
// fire on their own: the owner advances the clock once per frame and every
// due callback runs on the caller's goroutine.
package sched

import (
	"container/heap"
	"time"
)

type TimerID uint64

type timer struct {
	id       TimerID
	due      time.Duration
	interval time.Duration
	seq      uint64
	fn       func()
	index    int
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due == h[j].due {
		return h[i].seq < h[j].seq
	}
	return h[i].due < h[j].due
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

type Scheduler struct {
	now    time.Duration
	timers timerHeap
	byID   map[TimerID]*timer
	nextID TimerID
	seq    uint64
}

func New() *Scheduler {
	return &Scheduler{byID: make(map[TimerID]*timer)}
}

// Now returns the scheduler clock, the sum of every Advance so far.
func (s *Scheduler) Now() time.Duration {
	if s == nil {
		return 0
	}
	return s.now
}

// After runs fn once, d after the current clock.
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	return s.add(d, 0, fn)
}

// Every runs fn each d until cancelled.
func (s *Scheduler) Every(d time.Duration, fn func()) TimerID {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.add(d, d, fn)
}

func (s *Scheduler) add(d, interval time.Duration, fn func()) TimerID {
	if s == nil || fn == nil {
		return 0
	}
	if d < 0 {
		d = 0
	}
	s.nextID++
	s.seq++
	t := &timer{id: s.nextID, due: s.now + d, interval: interval, seq: s.seq, fn: fn}
	heap.Push(&s.timers, t)
	s.byID[t.id] = t
	return t.id
}

// Cancel stops a pending timer. It reports whether the timer was pending.
func (s *Scheduler) Cancel(id TimerID) bool {
	if s == nil {
		return false
	}
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	if t.index >= 0 {
		heap.Remove(&s.timers, t.index)
	}
	return true
}

// Advance moves the clock forward by dt and runs every timer that became
// due, in due-time order. Callbacks may schedule or cancel timers; a timer
// scheduled for the current instant runs in the same Advance.
func (s *Scheduler) Advance(dt time.Duration) {
	if s == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	for len(s.timers) > 0 {
		next := s.timers[0]
		if next.due > target {
			break
		}
		heap.Pop(&s.timers)
		if next.due > s.now {
			s.now = next.due
		}
		if next.interval > 0 {
			s.seq++
			next.due += next.interval
			next.seq = s.seq
			heap.Push(&s.timers, next)
		} else {
			delete(s.byID, next.id)
		}
		next.fn()
	}
	s.now = target
}

// Pending returns the number of scheduled timers.
func (s *Scheduler) Pending() int {
	if s == nil {
		return 0
	}
	return len(s.byID)
}
