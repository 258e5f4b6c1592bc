package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ballpit/chute"
	"github.com/milk9111/ballpit/config"
)

func TestShrinkFactor(t *testing.T) {
	const radius, zone, min = 30.0, 80.0, 0.1
	if f := ShrinkFactor(zone, radius, zone, min); f != 1 {
		t.Fatalf("at zone edge: %v", f)
	}
	if f := ShrinkFactor(radius, radius, zone, min); f > 0.1 {
		t.Fatalf("at radius: %v", f)
	}
	if f := ShrinkFactor(0, radius, zone, min); f != min {
		t.Fatalf("inside radius should clamp to min, got %v", f)
	}
	if f := ShrinkFactor(500, radius, zone, min); f != 1 {
		t.Fatalf("outside zone should clamp to 1, got %v", f)
	}
	prev := ShrinkFactor(zone, radius, zone, min)
	for d := zone; d >= radius; d -= 0.5 {
		f := ShrinkFactor(d, radius, zone, min)
		if f > prev {
			t.Fatalf("not monotonic at d=%v: %v > %v", d, f, prev)
		}
		prev = f
	}
}

func centeredDrain(c *config.Config) {
	c.Drain.X = 0.5
	c.Drain.Y = 0.5
	c.Drain.Radius = 30
	c.Drain.ShrinkZone = 80
	c.Chute.Capacity = 2
}

func TestCollectionWithCapacity(t *testing.T) {
	e, q, _ := newTestEngine(t, centeredDrain)
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	e.CreateBall(BallOptions{X: 100, Y: 100})
	e.CreateBall(BallOptions{X: 400, Y: 300, Radius: 20})

	e.Frame(1.0 / 60)

	if got := len(e.Balls()); got != 1 {
		t.Fatalf("expected 1 live ball, got %d", got)
	}
	if q.Len() != 1 {
		t.Fatalf("expected 1 queued ball, got %d", q.Len())
	}
	if r := q.Balls()[0].Radius; r != 20 {
		t.Fatalf("queued radius %v, want 20", r)
	}
}

func TestCollectionWhenFullIsNotStuck(t *testing.T) {
	e, q, _ := newTestEngine(t, centeredDrain)
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	q.Enqueue(chute.Ball{})
	q.Enqueue(chute.Ball{})
	b := e.CreateBall(BallOptions{X: 400, Y: 300})

	e.Frame(1.0 / 60)
	if len(e.Balls()) != 1 || q.Len() != 2 {
		t.Fatalf("full queue changed state: %d balls, %d queued", len(e.Balls()), q.Len())
	}
	if e.Collecting(b) || b.DrawRadius() != b.Radius {
		t.Fatalf("ball should not be collecting while the queue is full")
	}

	q.DequeueOldest()
	e.Frame(1.0 / 60)
	if len(e.Balls()) != 0 || q.Len() != 2 {
		t.Fatalf("expected collection after capacity freed: %d balls, %d queued", len(e.Balls()), q.Len())
	}
}

func TestCollectionAbortRestoresRadius(t *testing.T) {
	e, q, _ := newTestEngine(t, centeredDrain)
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	b := e.CreateBall(BallOptions{X: 460, Y: 300, Radius: 20})

	e.Frame(1.0 / 60)
	if !e.Collecting(b) {
		t.Fatalf("ball in the shrink zone should be collecting")
	}
	if b.DrawRadius() >= b.Radius {
		t.Fatalf("expected shrunken radius, got %v", b.DrawRadius())
	}

	q.Enqueue(chute.Ball{})
	q.Enqueue(chute.Ball{})
	b.Body.SetPosition(cp.Vector{X: 400, Y: 300})
	e.Frame(1.0 / 60)

	if e.Collecting(b) {
		t.Fatalf("collection should abort when the queue is full")
	}
	if b.DrawRadius() != 20 || len(e.Balls()) != 1 {
		t.Fatalf("abort left radius %v with %d balls", b.DrawRadius(), len(e.Balls()))
	}
}

func TestCollectionAbortsWhenLeavingZone(t *testing.T) {
	e, _, _ := newTestEngine(t, centeredDrain)
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	b := e.CreateBall(BallOptions{X: 460, Y: 300, Radius: 20})
	e.Frame(1.0 / 60)
	if !e.Collecting(b) {
		t.Fatalf("expected collecting")
	}
	b.Body.SetPosition(cp.Vector{X: 100, Y: 100})
	e.Frame(1.0 / 60)
	if e.Collecting(b) || b.VisualRadius != 0 {
		t.Fatalf("leaving the zone should reset collection")
	}
}
