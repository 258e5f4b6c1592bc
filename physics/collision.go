package physics

import (
	"github.com/jakecoffman/cp"
)

func (e *Engine) setupHandlers() {
	if e == nil || e.space == nil {
		return
	}

	boundaryHandler := e.space.NewCollisionHandler(collisionTypeBall, collisionTypeBoundary)
	boundaryHandler.UserData = e
	boundaryHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		engine, ok := userData.(*Engine)
		if !ok || engine == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		ball, ok := shapeA.UserData.(*Ball)
		boundaryShape := shapeB
		if !ok {
			if ball, ok = shapeB.UserData.(*Ball); !ok {
				return true
			}
			boundaryShape = shapeA
		}
		engine.handleBoundaryHit(ball, boundaryShape)
		return true
	}
}

// handleBoundaryHit triggers the owning element reaction when a ball hits a
// reactive boundary hard enough. It only writes element style, so it is
// safe to call while the space is stepping.
func (e *Engine) handleBoundaryHit(ball *Ball, shape *cp.Shape) {
	if ball == nil || shape == nil {
		return
	}
	if _, live := e.byID[ball.ID]; !live {
		return
	}
	var boundary *Boundary
	for _, m := range e.mappers {
		if b := m.boundaryForShape(shape); b != nil {
			boundary = b
			break
		}
	}
	if boundary == nil || boundary.Type != BoundaryReactive {
		return
	}
	speed := ball.Velocity().Length()
	if speed < *boundary.Options.VelocityThreshold {
		return
	}
	e.logf("PhysicsEngine: ball %d hit %s at %.0f px/s", ball.ID, boundary.ID, speed)
	e.reactor.Trigger(boundary.Element, boundary.Options.Reaction)
}
