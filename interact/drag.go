package interact

import (
	"log"

	"github.com/milk9111/ballpit/physics"
)

// DragManager lets the pointer grab live balls.
type DragManager struct {
	engine *physics.Engine
	canvas Canvas
	cursor Cursor

	mc      *physics.MouseConstraint
	tracked *physics.Ball
}

func NewDragManager(engine *physics.Engine, canvas Canvas, cursor Cursor) *DragManager {
	if cursor == nil {
		cursor = nopCursor{}
	}
	return &DragManager{engine: engine, canvas: canvas, cursor: cursor}
}

// Start attaches the pointer constraint. It returns false when the engine
// or canvas is missing; calling it again while started is a no-op.
func (d *DragManager) Start() bool {
	if d == nil {
		return false
	}
	if d.mc != nil {
		return true
	}
	if d.engine == nil || d.canvas == nil {
		log.Printf("DragManager: start without engine or canvas")
		return false
	}
	mc, err := physics.NewMouseConstraint(d.engine)
	if err != nil {
		log.Printf("DragManager: start: %v", err)
		return false
	}
	mc.OnStartDrag = d.onStart
	mc.OnEndDrag = d.onEnd
	d.mc = mc
	return true
}

func (d *DragManager) onStart(b *physics.Ball) {
	if b == nil {
		return
	}
	d.tracked = b
	d.engine.SetVisualState(b, physics.VisualDragged)
	d.cursor.SetCursor(CursorGrabbing)
}

func (d *DragManager) onEnd(b *physics.Ball) {
	if b == nil {
		b = d.tracked
	}
	if b != nil {
		d.engine.ClearVisualState(b)
	}
	d.tracked = nil
	d.cursor.SetCursor(CursorDefault)
}

// PointerDown starts a drag if a ball is under the viewport point.
func (d *DragManager) PointerDown(x, y float64) bool {
	if d == nil || d.mc == nil {
		return false
	}
	lx, ly, ok := toCanvas(d.canvas, x, y)
	if !ok {
		return false
	}
	return d.mc.PointerDown(lx, ly)
}

// PointerMove follows the pointer. Points outside the canvas still steer
// the grabbed ball toward the edge.
func (d *DragManager) PointerMove(x, y float64) {
	if d == nil || d.mc == nil {
		return
	}
	r, ok := d.canvas.BoundingClientRect()
	if !ok {
		return
	}
	d.mc.PointerMove(x-r.X, y-r.Y)
}

func (d *DragManager) PointerUp(x, y float64) {
	if d == nil || d.mc == nil {
		return
	}
	r, ok := d.canvas.BoundingClientRect()
	if !ok {
		r.X, r.Y = 0, 0
	}
	d.mc.PointerUp(x-r.X, y-r.Y)
}

// Dragging returns the ball currently held.
func (d *DragManager) Dragging() (*physics.Ball, bool) {
	if d == nil || d.tracked == nil {
		return nil, false
	}
	return d.tracked, true
}

// Stop removes the constraint and forgets any drag. Safe to call twice.
func (d *DragManager) Stop() {
	if d == nil || d.mc == nil {
		return
	}
	mc := d.mc
	d.mc = nil
	mc.Close()
	d.tracked = nil
}
