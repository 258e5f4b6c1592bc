// Package chute holds the balls waiting in the gravity chute.
package chute

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/milk9111/ballpit/store"
)

const (
	DefaultCapacity = 5
	DefaultRadius   = 32.0
)

// DefaultColor is used for balls enqueued without a color.
var DefaultColor = color.NRGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}

// Ball is a pending ball descriptor. It carries no physics state.
type Ball struct {
	ID       string
	Radius   float64
	Color    color.NRGBA
	QueuedAt time.Time
}

// Status is a debugging snapshot of the queue.
type Status struct {
	Length     int
	Capacity   int
	CanCollect bool
	CanRelease bool
	Balls      []BallStatus
}

type BallStatus struct {
	ID       string
	QueuedAt time.Time
}

// Queue is a capacity-bounded FIFO of pending balls.
type Queue struct {
	capacity int
	now      func() time.Time
	seq      int
	debug    bool

	balls *store.Writable[[]Ball]

	// Length, CanCollect and CanRelease are recomputed on every mutation.
	Length     *store.Derived[int]
	CanCollect *store.Derived[bool]
	CanRelease *store.Derived[bool]
}

// NewQueue creates a queue. A nil clock uses time.Now.
func NewQueue(capacity int, now func() time.Time) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	q := &Queue{
		capacity: capacity,
		now:      now,
		balls:    store.NewWritable([]Ball{}),
	}
	q.Length = store.Derive[[]Ball, int](q.balls, func(b []Ball) int { return len(b) })
	q.CanCollect = store.Derive[int, bool](q.Length, func(n int) bool { return n < q.capacity })
	q.CanRelease = store.Derive[int, bool](q.Length, func(n int) bool { return n > 0 })
	return q
}

// SetDebug toggles per-operation logging.
func (q *Queue) SetDebug(debug bool) {
	if q == nil {
		return
	}
	q.debug = debug
}

// Enqueue appends b if there is room. Missing fields get defaults.
func (q *Queue) Enqueue(b Ball) bool {
	if q == nil {
		return false
	}
	current := q.balls.Get()
	if len(current) >= q.capacity {
		if q.debug {
			log.Println("BallQueue: queue is full, cannot add more balls")
		}
		return false
	}

	q.seq++
	if b.ID == "" {
		b.ID = fmt.Sprintf("queued-ball-%d", q.seq)
	}
	if b.Radius <= 0 {
		b.Radius = DefaultRadius
	}
	if b.Color == (color.NRGBA{}) {
		b.Color = DefaultColor
	}
	b.QueuedAt = q.now()

	next := make([]Ball, len(current), len(current)+1)
	copy(next, current)
	next = append(next, b)
	q.balls.Set(next)

	if q.debug {
		log.Printf("BallQueue: ball added to queue. Queue length: %d", len(next))
	}
	return true
}

// DequeueOldest removes and returns the front of the queue.
func (q *Queue) DequeueOldest() (Ball, bool) {
	if q == nil {
		return Ball{}, false
	}
	current := q.balls.Get()
	if len(current) == 0 {
		if q.debug {
			log.Println("BallQueue: queue is empty, cannot release ball")
		}
		return Ball{}, false
	}
	out := current[0]
	next := append([]Ball(nil), current[1:]...)
	q.balls.Set(next)

	if q.debug {
		log.Printf("BallQueue: ball released from queue. Remaining: %d", len(next))
	}
	return out, true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	if q == nil {
		return
	}
	q.balls.Set([]Ball{})
	if q.debug {
		log.Println("BallQueue: queue cleared")
	}
}

func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.balls.Get())
}

func (q *Queue) Cap() int {
	if q == nil {
		return 0
	}
	return q.capacity
}

func (q *Queue) HasCapacity() bool {
	return q != nil && q.Len() < q.capacity
}

func (q *Queue) HasBalls() bool {
	return q.Len() > 0
}

// Balls returns a copy of the queue, oldest first.
func (q *Queue) Balls() []Ball {
	if q == nil {
		return nil
	}
	return append([]Ball(nil), q.balls.Get()...)
}

// Subscribe is notified with a copy of the queue after every mutation.
func (q *Queue) Subscribe(fn func([]Ball)) func() {
	if q == nil || fn == nil {
		return func() {}
	}
	return q.balls.Subscribe(func(b []Ball) { fn(append([]Ball(nil), b...)) })
}

func (q *Queue) Status() Status {
	if q == nil {
		return Status{}
	}
	balls := q.balls.Get()
	st := Status{
		Length:     len(balls),
		Capacity:   q.capacity,
		CanCollect: len(balls) < q.capacity,
		CanRelease: len(balls) > 0,
		Balls:      make([]BallStatus, 0, len(balls)),
	}
	for _, b := range balls {
		st.Balls = append(st.Balls, BallStatus{ID: b.ID, QueuedAt: b.QueuedAt})
	}
	return st
}
