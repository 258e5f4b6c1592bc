package physics

import (
	"log"

	"github.com/milk9111/ballpit/chute"
)

// ChuteExit is where released balls enter the world.
func (e *Engine) ChuteExit() (float64, float64) {
	if e == nil {
		return 0, 0
	}
	return e.cfg.Chute.ExitX * e.width, e.cfg.Chute.ExitY
}

// ReleaseFromChute turns a queued descriptor back into a live ball at the
// chute exit with a little random sideways motion.
func (e *Engine) ReleaseFromChute(desc chute.Ball) *Ball {
	if e == nil || e.space == nil {
		log.Printf("PhysicsEngine: release without world")
		return nil
	}
	x, y := e.ChuteExit()
	radius := desc.Radius
	if radius <= 0 {
		radius = chute.DefaultRadius
	}
	x, y = clampInside(x, y, radius, e.width, e.height)
	ball := e.CreateBall(BallOptions{
		X:      x,
		Y:      y,
		VX:     (e.rng.Float64() - 0.5) * e.cfg.Chute.SpreadX,
		VY:     e.cfg.Chute.DownSpeed,
		Radius: radius,
		Color:  desc.Color,
	})
	if ball != nil {
		e.logf("PhysicsEngine: released %s as ball %d", desc.ID, ball.ID)
	}
	return ball
}

// ReleaseNext dequeues the oldest descriptor and releases it. The queue is
// left untouched when the world does not exist.
func (e *Engine) ReleaseNext() (*Ball, bool) {
	if e == nil || e.space == nil || e.queue == nil {
		return nil, false
	}
	desc, ok := e.queue.DequeueOldest()
	if !ok {
		return nil, false
	}
	ball := e.ReleaseFromChute(desc)
	return ball, ball != nil
}
