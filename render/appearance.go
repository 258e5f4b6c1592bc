package render

import (
	"time"

	"github.com/milk9111/ballpit/page"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type property struct {
	value  float64
	target float64
	tween  *gween.Tween
}

func newProperty(v float64) property {
	return property{value: v, target: v}
}

func (p *property) retarget(target float64, d time.Duration) {
	if target == p.target {
		return
	}
	p.target = target
	if d <= 0 {
		p.value = target
		p.tween = nil
		return
	}
	p.tween = gween.New(float32(p.value), float32(target), float32(d.Seconds()), ease.OutQuad)
}

func (p *property) update(dt float64) {
	if p.tween == nil {
		return
	}
	v, done := p.tween.Update(float32(dt))
	p.value = float64(v)
	if done {
		p.value = p.target
		p.tween = nil
	}
}

// Appearance eases a card's drawn scale and filter toward what its style
// asks for, following the style's transition durations.
type Appearance struct {
	Scale      property
	Brightness property
	Saturate   property
	HueRotate  property
}

func NewAppearance() *Appearance {
	return &Appearance{
		Scale:      newProperty(1),
		Brightness: newProperty(1),
		Saturate:   newProperty(1),
		HueRotate:  newProperty(0),
	}
}

// Sync reads new targets from style.
func (a *Appearance) Sync(style page.Style) {
	transformDur, _ := page.TransitionDuration(style.Transition, "transform")
	filterDur, _ := page.TransitionDuration(style.Transition, "filter")
	a.Scale.retarget(page.Product(style.Transform, "scale"), transformDur)
	a.Brightness.retarget(page.Product(style.Filter, "brightness"), filterDur)
	a.Saturate.retarget(page.Product(style.Filter, "saturate"), filterDur)
	a.HueRotate.retarget(page.Sum(style.Filter, "hue-rotate"), filterDur)
}

// Update advances the tweens by dt seconds.
func (a *Appearance) Update(dt float64) {
	a.Scale.update(dt)
	a.Brightness.update(dt)
	a.Saturate.update(dt)
	a.HueRotate.update(dt)
}

// Settled reports whether every property has reached its target.
func (a *Appearance) Settled() bool {
	return a.Scale.tween == nil && a.Brightness.tween == nil && a.Saturate.tween == nil && a.HueRotate.tween == nil
}

func (a *Appearance) Values() (scale, brightness, saturate, hue float64) {
	return a.Scale.value, a.Brightness.value, a.Saturate.value, a.HueRotate.value
}
