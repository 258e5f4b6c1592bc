package physics

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ballpit/common"
)

var ErrNoWorld = errors.New("physics: no world")

// MouseConstraint drags balls with a kinematic pointer body joined to the
// grabbed ball by a force-limited pivot.
type MouseConstraint struct {
	engine  *Engine
	pointer *cp.Body
	joint   *cp.Constraint
	grabbed *Ball
	target  cp.Vector

	stiffness float64
	maxForce  float64
	slop      float64

	OnStartDrag func(*Ball)
	OnEndDrag   func(*Ball)

	unhookStep   func()
	unhookRemove func()
}

// NewMouseConstraint attaches a pointer constraint to an initialized
// engine.
func NewMouseConstraint(e *Engine) (*MouseConstraint, error) {
	if e == nil || e.space == nil {
		return nil, ErrNoWorld
	}
	cfg := e.cfg.Drag
	m := &MouseConstraint{
		engine:    e,
		pointer:   cp.NewKinematicBody(),
		stiffness: common.Clamp(cfg.Stiffness, 0.01, 1),
		maxForce:  cfg.MaxForce,
		slop:      cfg.GrabSlop,
	}
	if m.maxForce <= 0 {
		m.maxForce = math.Inf(1)
	}
	m.unhookStep = e.AddStepHook(m.update)
	m.unhookRemove = e.OnBallRemoved(func(b *Ball) {
		if b == m.grabbed {
			m.release(nil)
		}
	})
	return m, nil
}

// PointerDown grabs the ball under (x, y), in canvas pixels.
func (m *MouseConstraint) PointerDown(x, y float64) bool {
	if m == nil || m.engine == nil || m.engine.space == nil || m.grabbed != nil {
		return false
	}
	p := cp.Vector{X: x, Y: y}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryBall)
	info := m.engine.space.PointQueryNearest(p, m.slop, filter)
	if info == nil || info.Shape == nil {
		return false
	}
	ball, ok := info.Shape.UserData.(*Ball)
	if !ok || ball == nil {
		return false
	}
	anchor := p
	if info.Distance > 0 {
		anchor = info.Point
	}
	m.pointer.SetPosition(p)
	m.pointer.SetVelocity(0, 0)
	m.target = p
	m.joint = cp.NewPivotJoint2(m.pointer, ball.Body, cp.Vector{}, ball.Body.WorldToLocal(anchor))
	m.joint.SetMaxForce(m.maxForce)
	m.joint.SetErrorBias(math.Pow(1.0-0.15, 60.0))
	m.engine.space.AddConstraint(m.joint)
	m.grabbed = ball
	if m.OnStartDrag != nil {
		m.OnStartDrag(ball)
	}
	return true
}

func (m *MouseConstraint) PointerMove(x, y float64) {
	if m == nil {
		return
	}
	m.target = cp.Vector{X: x, Y: y}
}

func (m *MouseConstraint) PointerUp(x, y float64) {
	if m == nil || m.grabbed == nil {
		return
	}
	m.target = cp.Vector{X: x, Y: y}
	m.release(m.grabbed)
}

// Grabbed returns the ball being dragged.
func (m *MouseConstraint) Grabbed() (*Ball, bool) {
	if m == nil || m.grabbed == nil {
		return nil, false
	}
	return m.grabbed, true
}

func (m *MouseConstraint) update(dt float64) {
	if m.grabbed == nil || dt <= 0 {
		return
	}
	cur := m.pointer.Position()
	next := cur.Lerp(m.target, m.stiffness)
	m.pointer.SetVelocityVector(next.Sub(cur).Mult(1 / dt))
	m.pointer.SetPosition(next)
}

// release drops the grabbed ball. ball is what OnEndDrag reports; nil when
// the ball left the world.
func (m *MouseConstraint) release(ball *Ball) {
	if m.joint != nil {
		if space := m.engine.space; space != nil && space.ContainsConstraint(m.joint) {
			space.RemoveConstraint(m.joint)
		}
		m.joint = nil
	}
	m.grabbed = nil
	if m.OnEndDrag != nil {
		m.OnEndDrag(ball)
	}
}

// Close drops any grab and detaches from the engine. It is safe to call
// more than once.
func (m *MouseConstraint) Close() {
	if m == nil {
		return
	}
	if m.grabbed != nil {
		m.release(m.grabbed)
	}
	if m.unhookStep != nil {
		m.unhookStep()
		m.unhookStep = nil
	}
	if m.unhookRemove != nil {
		m.unhookRemove()
		m.unhookRemove = nil
	}
}
