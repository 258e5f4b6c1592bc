package interact

import (
	"math"
	"testing"
	"time"

	"github.com/milk9111/ballpit/chute"
	"github.com/milk9111/ballpit/common"
	"github.com/milk9111/ballpit/config"
	"github.com/milk9111/ballpit/physics"
	"github.com/milk9111/ballpit/sched"
	"github.com/milk9111/ballpit/store"
)

type fakeCanvas struct {
	rect     common.Rect
	detached bool
}

func (c *fakeCanvas) BoundingClientRect() (common.Rect, bool) {
	return c.rect, !c.detached
}

type recordCursor struct {
	shapes []CursorShape
}

func (c *recordCursor) SetCursor(s CursorShape) { c.shapes = append(c.shapes, s) }

func (c *recordCursor) last() CursorShape {
	if len(c.shapes) == 0 {
		return ""
	}
	return c.shapes[len(c.shapes)-1]
}

type fakeBalls struct {
	pos    map[*physics.Ball][2]float64
	states map[*physics.Ball]physics.VisualState
}

func newFakeBalls() *fakeBalls {
	return &fakeBalls{pos: map[*physics.Ball][2]float64{}, states: map[*physics.Ball]physics.VisualState{}}
}

func (f *fakeBalls) add(id physics.BallID, x, y float64) *physics.Ball {
	b := &physics.Ball{ID: id, Radius: 10}
	f.pos[b] = [2]float64{x, y}
	return b
}

func (f *fakeBalls) ClosestBall(x, y float64) (*physics.Ball, float64, bool) {
	var best *physics.Ball
	bestD := math.Inf(1)
	for b, p := range f.pos {
		if d := common.Distance(x, y, p[0], p[1]); d < bestD {
			best, bestD = b, d
		}
	}
	return best, bestD, best != nil
}

func (f *fakeBalls) VisualState(b *physics.Ball) physics.VisualState {
	if s, ok := f.states[b]; ok {
		return s
	}
	return physics.VisualNormal
}

func (f *fakeBalls) SetVisualState(b *physics.Ball, s physics.VisualState) { f.states[b] = s }
func (f *fakeBalls) ClearVisualState(b *physics.Ball)                      { delete(f.states, b) }

func TestHoverTransitions(t *testing.T) {
	balls := newFakeBalls()
	a := balls.add(1, 100, 100)
	b := balls.add(2, 300, 100)
	canvas := &fakeCanvas{rect: common.Rect{X: 0, Y: 50, Width: 800, Height: 600}}
	mode := store.NewInteraction()
	cursor := &recordCursor{}
	s := sched.New()
	h := NewHoverDetector(balls, canvas, mode, cursor, HoverOptions{Radius: 20, Interval: 100 * time.Millisecond})
	h.Start(s)
	h.Start(s)

	steps := []struct {
		name    string
		x, y    float64
		hovered *physics.Ball
		mode    store.Mode
		cursor  CursorShape
	}{
		{"none_to_hover", 105, 150, a, store.ModeBallInteraction, CursorPointer},
		{"stay", 110, 155, a, store.ModeBallInteraction, CursorPointer},
		{"switch", 295, 150, b, store.ModeBallInteraction, CursorPointer},
		{"hover_to_none", 500, 400, nil, store.ModeNormalBrowsing, CursorDefault},
		{"outside_canvas_skips", 100, 10, nil, store.ModeNormalBrowsing, CursorDefault},
	}
	for _, st := range steps {
		t.Run(st.name, func(t *testing.T) {
			h.HandleMouseMove(st.x, st.y)
			s.Advance(100 * time.Millisecond)
			got, _ := h.Hovered()
			if got != st.hovered {
				t.Fatalf("hovered %v, want %v", got, st.hovered)
			}
			if mode.Mode() != st.mode {
				t.Fatalf("mode %v, want %v", mode.Mode(), st.mode)
			}
			if cursor.last() != st.cursor {
				t.Fatalf("cursor %v, want %v", cursor.last(), st.cursor)
			}
			if st.hovered != nil && balls.VisualState(st.hovered) != physics.VisualHovered {
				t.Fatalf("hovered ball not marked")
			}
		})
	}
	if balls.VisualState(a) != physics.VisualNormal || balls.VisualState(b) != physics.VisualNormal {
		t.Fatalf("visual states left behind: %v", balls.states)
	}
	if len(cursor.shapes) != 2 {
		t.Fatalf("cursor written %d times: %v", len(cursor.shapes), cursor.shapes)
	}

	h.Stop()
	h.Stop()
	if s.Pending() != 0 {
		t.Fatalf("poll timer still scheduled")
	}
	h.HandleMouseMove(105, 150)
	h.Poll()
	if _, ok := h.Hovered(); ok {
		t.Fatalf("stopped detector tracked the pointer")
	}
}

func TestHoverNoBalls(t *testing.T) {
	balls := newFakeBalls()
	a := balls.add(1, 10, 10)
	mode := store.NewInteraction()
	h := NewHoverDetector(balls, &fakeCanvas{rect: common.Rect{Width: 100, Height: 100}}, mode, nil, HoverOptions{})
	h.Start(sched.New())
	h.HandleMouseMove(10, 10)
	h.Poll()
	if got, _ := h.Hovered(); got != a {
		t.Fatalf("expected hover")
	}
	delete(balls.pos, a)
	h.Poll()
	if _, ok := h.Hovered(); ok || mode.Mode() != store.ModeNormalBrowsing {
		t.Fatalf("expected hover cleared once the ball is gone")
	}
}

func TestHoverLeavesDraggedBall(t *testing.T) {
	balls := newFakeBalls()
	a := balls.add(1, 10, 10)
	balls.SetVisualState(a, physics.VisualDragged)
	h := NewHoverDetector(balls, &fakeCanvas{rect: common.Rect{Width: 100, Height: 100}}, store.NewInteraction(), nil, HoverOptions{})
	h.Start(sched.New())
	h.HandleMouseMove(10, 10)
	h.Poll()
	if balls.VisualState(a) != physics.VisualDragged {
		t.Fatalf("hover overwrote dragged state")
	}
}

func TestHoverStopReleasesHover(t *testing.T) {
	balls := newFakeBalls()
	a := balls.add(1, 10, 10)
	mode := store.NewInteraction()
	cursor := &recordCursor{}
	h := NewHoverDetector(balls, &fakeCanvas{rect: common.Rect{Width: 100, Height: 100}}, mode, cursor, HoverOptions{})
	h.Start(sched.New())
	h.HandleMouseMove(10, 10)
	h.Poll()
	if mode.Mode() != store.ModeBallInteraction {
		t.Fatalf("expected ball interaction while hovering")
	}

	h.Stop()
	if _, ok := h.Hovered(); ok {
		t.Fatalf("hover survived Stop")
	}
	if balls.VisualState(a) != physics.VisualNormal || mode.Mode() != store.ModeNormalBrowsing || mode.Intercepts() {
		t.Fatalf("Stop left state %v, mode %v", balls.VisualState(a), mode.Mode())
	}
	if cursor.last() != CursorDefault {
		t.Fatalf("cursor %q after Stop", cursor.last())
	}
}

func TestHoverRestoresGlowAfterDrag(t *testing.T) {
	balls := newFakeBalls()
	a := balls.add(1, 10, 10)
	cursor := &recordCursor{}
	h := NewHoverDetector(balls, &fakeCanvas{rect: common.Rect{Width: 100, Height: 100}}, store.NewInteraction(), cursor, HoverOptions{})
	h.Start(sched.New())
	h.HandleMouseMove(10, 10)
	h.Poll()

	balls.SetVisualState(a, physics.VisualDragged)
	h.Poll()
	if balls.VisualState(a) != physics.VisualDragged {
		t.Fatalf("hover overwrote a drag")
	}

	// drag end clears the state and resets the cursor
	balls.ClearVisualState(a)
	cursor.SetCursor(CursorDefault)
	h.Poll()
	if balls.VisualState(a) != physics.VisualHovered || cursor.last() != CursorPointer {
		t.Fatalf("state %v cursor %q, want hovered and pointer", balls.VisualState(a), cursor.last())
	}
}

func TestHoverSetOptions(t *testing.T) {
	balls := newFakeBalls()
	a := balls.add(1, 10, 10)
	s := sched.New()
	h := NewHoverDetector(balls, &fakeCanvas{rect: common.Rect{Width: 100, Height: 100}}, store.NewInteraction(), nil, HoverOptions{})
	h.Start(s)
	h.HandleMouseMove(40, 10)

	s.Advance(DefaultHoverInterval)
	if _, ok := h.Hovered(); ok {
		t.Fatalf("30px away should be outside the default radius")
	}

	h.SetOptions(HoverOptions{Radius: 40, Interval: 50 * time.Millisecond})
	s.Advance(50 * time.Millisecond)
	if got, ok := h.Hovered(); !ok || got != a {
		t.Fatalf("expected hover after widening the radius")
	}
	if s.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1 poll timer", s.Pending())
	}
}

func newEngine(t *testing.T) *physics.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.World.Gravity = 0
	cfg.World.InitialBalls = 0
	e := physics.New(cfg, chute.NewQueue(cfg.Chute.Capacity, nil), sched.New())
	if err := e.Init(800, 600); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return e
}

func TestDragManagerStartRequiresWorld(t *testing.T) {
	canvas := &fakeCanvas{rect: common.Rect{Width: 800, Height: 600}}
	if NewDragManager(nil, canvas, nil).Start() {
		t.Fatalf("start without engine")
	}
	if NewDragManager(physics.New(nil, nil, nil), canvas, nil).Start() {
		t.Fatalf("start without world")
	}
	if NewDragManager(newEngine(t), nil, nil).Start() {
		t.Fatalf("start without canvas")
	}
}

func TestDragManagerDrag(t *testing.T) {
	e := newEngine(t)
	ball := e.CreateBall(physics.BallOptions{X: 200, Y: 200, Radius: 20})
	canvas := &fakeCanvas{rect: common.Rect{X: 0, Y: 100, Width: 800, Height: 600}}
	cursor := &recordCursor{}
	d := NewDragManager(e, canvas, cursor)
	if !d.Start() || !d.Start() {
		t.Fatalf("Start failed")
	}

	if !d.PointerDown(200, 300) {
		t.Fatalf("expected grab at the ball")
	}
	if got, ok := d.Dragging(); !ok || got != ball {
		t.Fatalf("dragging %v", got)
	}
	if e.VisualState(ball) != physics.VisualDragged || cursor.last() != CursorGrabbing {
		t.Fatalf("drag start did not mark ball or cursor")
	}

	d.PointerMove(260, 300)
	d.PointerUp(260, 300)
	if _, ok := d.Dragging(); ok {
		t.Fatalf("still dragging after release")
	}
	if e.VisualState(ball) != physics.VisualNormal || cursor.last() != CursorDefault {
		t.Fatalf("drag end did not reset state")
	}

	if d.PointerDown(200, 50) {
		t.Fatalf("grabbed outside the canvas")
	}
	d.Stop()
	d.Stop()
	if d.PointerDown(200, 300) {
		t.Fatalf("grabbed after stop")
	}
}
