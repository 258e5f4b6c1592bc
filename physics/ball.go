package physics

import (
	"image/color"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ballpit/chute"
	"github.com/milk9111/ballpit/common"
)

// BallID is assigned when a ball is created and never reused.
type BallID uint64

// VisualState is the presentation tag of a ball.
type VisualState string

const (
	VisualNormal  VisualState = "normal"
	VisualHovered VisualState = "hovered"
	VisualDragged VisualState = "dragged"
)

// Ball is a live dynamic body in the world.
type Ball struct {
	ID     BallID
	Body   *cp.Body
	Shape  *cp.Shape
	Radius float64
	Color  color.NRGBA

	// VisualRadius overrides Radius while the ball is being collected.
	// Zero means no override.
	VisualRadius float64
}

func (b *Ball) Position() cp.Vector {
	if b == nil || b.Body == nil {
		return cp.Vector{}
	}
	return b.Body.Position()
}

func (b *Ball) Velocity() cp.Vector {
	if b == nil || b.Body == nil {
		return cp.Vector{}
	}
	return b.Body.Velocity()
}

// DrawRadius is the radius to render with.
func (b *Ball) DrawRadius() float64 {
	if b == nil {
		return 0
	}
	if b.VisualRadius > 0 {
		return b.VisualRadius
	}
	return b.Radius
}

// BallOptions describes a ball to create. Zero fields take config defaults.
type BallOptions struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Color  color.NRGBA
}

// CreateBall adds a ball to the world. It returns nil when the world does
// not exist yet.
func (e *Engine) CreateBall(opts BallOptions) *Ball {
	if e == nil || e.space == nil {
		log.Printf("PhysicsEngine: create ball without world")
		return nil
	}
	radius := opts.Radius
	if radius <= 0 {
		radius = e.cfg.Ball.Radius
	}
	if radius <= 0 {
		radius = chute.DefaultRadius
	}
	col := opts.Color
	if col.A == 0 {
		col = e.randomColor()
	}

	mass := e.cfg.Ball.Density * math.Pi * radius * radius
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: opts.X, Y: opts.Y})
	body.SetVelocity(opts.VX, opts.VY)
	air := e.cfg.Ball.AirFriction
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(b, gravity, damping*airDamping(air, dt), dt)
	})

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetElasticity(e.cfg.Ball.Restitution)
	shape.SetFriction(e.cfg.Ball.Friction)
	shape.SetCollisionType(collisionTypeBall)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryBall, cp.ALL_CATEGORIES))

	e.nextID++
	ball := &Ball{ID: e.nextID, Body: body, Shape: shape, Radius: radius, Color: col}
	body.UserData = ball
	shape.UserData = ball

	e.space.AddBody(body)
	e.space.AddShape(shape)
	e.balls = append(e.balls, ball)
	e.byID[ball.ID] = ball
	return ball
}

// SpawnBalls scatters n balls across the upper part of the canvas.
func (e *Engine) SpawnBalls(n int) []*Ball {
	if e == nil || e.space == nil || n <= 0 {
		return nil
	}
	out := make([]*Ball, 0, n)
	for i := 0; i < n; i++ {
		r := e.randomRadius()
		maxX := math.Max(r, e.width-r)
		maxY := math.Max(r, e.height*0.3)
		ball := e.CreateBall(BallOptions{
			X:      r + e.rng.Float64()*(maxX-r),
			Y:      r + e.rng.Float64()*(maxY-r),
			Radius: r,
		})
		if ball != nil {
			out = append(out, ball)
		}
	}
	return out
}

// PrefillQueue fills the chute with up to n descriptors instead of
// spawning live balls. It returns how many were enqueued.
func (e *Engine) PrefillQueue(n int) int {
	if e == nil || e.queue == nil {
		return 0
	}
	added := 0
	for i := 0; i < n; i++ {
		if !e.queue.Enqueue(chute.Ball{Radius: e.randomRadius(), Color: e.randomColor()}) {
			break
		}
		added++
	}
	return added
}

func (e *Engine) randomRadius() float64 {
	r := e.cfg.Ball.Radius
	if r <= 0 {
		r = chute.DefaultRadius
	}
	if j := e.cfg.Ball.RadiusJitter; j > 0 {
		r += (e.rng.Float64()*2 - 1) * j
	}
	return math.Max(r, 4)
}

func (e *Engine) randomColor() color.NRGBA {
	palette := e.cfg.Ball.Palette
	if len(palette) == 0 {
		return chute.DefaultColor
	}
	return palette[e.rng.Intn(len(palette))].NRGBA
}

// RemoveBall takes a ball out of the world and every tracking structure.
func (e *Engine) RemoveBall(b *Ball) bool {
	if e == nil || b == nil {
		return false
	}
	if _, ok := e.byID[b.ID]; !ok {
		return false
	}
	for _, id := range append([]int(nil), e.removeOrder...) {
		if fn, ok := e.removed[id]; ok {
			fn(b)
		}
	}
	if e.space != nil {
		if e.space.ContainsShape(b.Shape) {
			e.space.RemoveShape(b.Shape)
		}
		if e.space.ContainsBody(b.Body) {
			e.space.RemoveBody(b.Body)
		}
	}
	delete(e.byID, b.ID)
	delete(e.visual, b.ID)
	delete(e.collecting, b.ID)
	for i, other := range e.balls {
		if other == b {
			e.balls = append(e.balls[:i], e.balls[i+1:]...)
			break
		}
	}
	return true
}

// Balls returns the live balls in creation order.
func (e *Engine) Balls() []*Ball {
	if e == nil {
		return nil
	}
	return append([]*Ball(nil), e.balls...)
}

func (e *Engine) Ball(id BallID) (*Ball, bool) {
	if e == nil {
		return nil, false
	}
	b, ok := e.byID[id]
	return b, ok
}

// ClosestBall returns the live ball whose center is nearest to (x, y).
func (e *Engine) ClosestBall(x, y float64) (*Ball, float64, bool) {
	if e == nil || len(e.balls) == 0 {
		return nil, 0, false
	}
	var best *Ball
	bestDist := math.Inf(1)
	for _, b := range e.balls {
		p := b.Position()
		if d := common.Distance(x, y, p.X, p.Y); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, bestDist, true
}

// SetVisualState tags a live ball. Unknown balls are ignored.
func (e *Engine) SetVisualState(b *Ball, state VisualState) {
	if e == nil || b == nil {
		return
	}
	if _, ok := e.byID[b.ID]; !ok {
		return
	}
	if state == VisualNormal || state == "" {
		delete(e.visual, b.ID)
		return
	}
	e.visual[b.ID] = state
}

func (e *Engine) VisualState(b *Ball) VisualState {
	if e == nil || b == nil {
		return VisualNormal
	}
	if s, ok := e.visual[b.ID]; ok {
		return s
	}
	return VisualNormal
}

func (e *Engine) ClearVisualState(b *Ball) {
	if e == nil || b == nil {
		return
	}
	delete(e.visual, b.ID)
}
