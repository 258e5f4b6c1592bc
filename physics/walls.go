package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ballpit/common"
)

const defaultWallThickness = 200.0

// buildWalls adds floor, ceiling and side walls just outside the canvas.
func (e *Engine) buildWalls(width, height float64) []*cp.Body {
	t := e.cfg.World.WallThickness
	if t <= 0 {
		t = defaultWallThickness
	}
	rects := []common.Rect{
		{X: -t, Y: height, Width: width + 2*t, Height: t}, // floor
		{X: -t, Y: -t, Width: width + 2*t, Height: t},     // ceiling
		{X: -t, Y: -t, Width: t, Height: height + 2*t},    // left
		{X: width, Y: -t, Width: t, Height: height + 2*t}, // right
	}
	walls := make([]*cp.Body, 0, len(rects))
	for _, r := range rects {
		body := cp.NewStaticBody()
		cx, cy := r.Center()
		body.SetPosition(cp.Vector{X: cx, Y: cy})
		shape := cp.NewBox(body, r.Width, r.Height, 0)
		shape.SetElasticity(e.cfg.Boundary.Restitution)
		shape.SetFriction(e.cfg.Boundary.Friction)
		shape.SetCollisionType(collisionTypeWall)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryBoundary, cp.ALL_CATEGORIES))
		e.space.AddBody(body)
		e.space.AddShape(shape)
		walls = append(walls, body)
	}
	return walls
}

func (e *Engine) removeWalls(walls []*cp.Body) {
	if e.space == nil {
		return
	}
	for _, body := range walls {
		body.EachShape(func(s *cp.Shape) {
			if e.space.ContainsShape(s) {
				e.space.RemoveShape(s)
			}
		})
		if e.space.ContainsBody(body) {
			e.space.RemoveBody(body)
		}
	}
}

// Walls returns the viewport wall bodies.
func (e *Engine) Walls() []*cp.Body {
	if e == nil {
		return nil
	}
	return append([]*cp.Body(nil), e.walls...)
}

// Resize rebuilds the viewport walls for a new canvas size and scales every
// live ball into it. The new walls go in before the old ones come out so no
// step ever runs without a floor. Registered boundary mappers are resynced
// afterwards.
func (e *Engine) Resize(width, height float64) {
	if e == nil || e.space == nil || width <= 0 || height <= 0 {
		return
	}
	if width == e.width && height == e.height {
		return
	}
	oldW, oldH := e.width, e.height

	old := e.walls
	e.walls = e.buildWalls(width, height)
	e.removeWalls(old)

	sx, sy := 1.0, 1.0
	if oldW > 0 {
		sx = width / oldW
	}
	if oldH > 0 {
		sy = height / oldH
	}
	for _, b := range e.balls {
		p := b.Body.Position()
		v := b.Body.Velocity()
		p.X, p.Y = clampInside(p.X*sx, p.Y*sy, b.Radius, width, height)
		b.Body.SetPosition(p)
		b.Body.SetVelocity(v.X*sx, v.Y*sy)
	}
	e.width, e.height = width, height
	e.logf("PhysicsEngine: resized %vx%v -> %vx%v", oldW, oldH, width, height)

	for _, m := range e.mappers {
		m.ResyncAll()
	}
}

// clampInside keeps a circle center at least r from every edge. A canvas
// smaller than the circle centers it on that axis.
func clampInside(x, y, r, width, height float64) (float64, float64) {
	if 2*r >= width {
		x = width / 2
	} else {
		x = common.Clamp(x, r, width-r)
	}
	if 2*r >= height {
		y = height / 2
	} else {
		y = common.Clamp(y, r, height-r)
	}
	if math.IsNaN(x) || math.IsNaN(y) {
		return width / 2, height / 2
	}
	return x, y
}
