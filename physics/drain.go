package physics

import (
	"github.com/milk9111/ballpit/chute"
	"github.com/milk9111/ballpit/common"
	"github.com/milk9111/ballpit/config"
)

// Drain is the collection point in canvas pixels.
type Drain struct {
	X, Y           float64
	Radius         float64
	ShrinkZone     float64
	MinShrink      float64
	FinalizeShrink float64
}

type collection struct {
	originalRadius float64
}

// ShrinkFactor maps a distance from the drain center to a visual scale. It
// is 1 at the edge of the shrink zone and falls linearly to min at the
// collection radius.
func ShrinkFactor(d, radius, zone, min float64) float64 {
	if zone <= radius {
		if d <= radius {
			return min
		}
		return 1
	}
	t := common.Clamp((d-radius)/(zone-radius), 0, 1)
	return common.Lerp(min, 1, t)
}

// Drain resolves the configured drain against the current canvas size.
func (e *Engine) Drain() Drain {
	if e == nil {
		return Drain{}
	}
	c := e.cfg.Drain
	min := c.MinShrink
	if min <= 0 {
		min = 0.1
	}
	finalize := c.FinalizeShrink
	if finalize <= 0 {
		finalize = 0.2
	}
	return Drain{
		X:              c.X * e.width,
		Y:              c.Y * e.height,
		Radius:         c.Radius,
		ShrinkZone:     c.ShrinkZone,
		MinShrink:      min,
		FinalizeShrink: finalize,
	}
}

// SetDrain replaces the drain settings.
func (e *Engine) SetDrain(c config.DrainConfig) {
	if e == nil {
		return
	}
	e.cfg.Drain = c
}

// Collecting reports whether a ball is inside the shrink zone on its way
// into the chute.
func (e *Engine) Collecting(b *Ball) bool {
	if e == nil || b == nil {
		return false
	}
	_, ok := e.collecting[b.ID]
	return ok
}

func (e *Engine) updateCollection() {
	if e.queue == nil {
		return
	}
	drain := e.Drain()
	for _, b := range append([]*Ball(nil), e.balls...) {
		p := b.Position()
		d := common.Distance(p.X, p.Y, drain.X, drain.Y)
		c, ok := e.collecting[b.ID]
		if !ok {
			if d > drain.ShrinkZone || !e.queue.HasCapacity() {
				continue
			}
			c = &collection{originalRadius: b.Radius}
			e.collecting[b.ID] = c
		}
		if d > drain.ShrinkZone {
			e.abortCollection(b, c)
			continue
		}
		f := ShrinkFactor(d, drain.Radius, drain.ShrinkZone, drain.MinShrink)
		b.VisualRadius = c.originalRadius * f
		if d <= drain.Radius || f <= drain.FinalizeShrink {
			e.finalizeCollection(b, c)
		}
	}
}

func (e *Engine) finalizeCollection(b *Ball, c *collection) {
	ok := e.queue.Enqueue(chute.Ball{Radius: c.originalRadius, Color: b.Color})
	if !ok {
		e.logf("PhysicsEngine: chute full, ball %d stays live", b.ID)
		e.abortCollection(b, c)
		return
	}
	e.logf("PhysicsEngine: collected ball %d", b.ID)
	e.RemoveBall(b)
}

func (e *Engine) abortCollection(b *Ball, c *collection) {
	b.VisualRadius = 0
	b.Radius = c.originalRadius
	delete(e.collecting, b.ID)
}
