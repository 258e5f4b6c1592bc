package physics

import (
	"log"
	"strings"
	"time"

	"github.com/milk9111/ballpit/page"
	"github.com/milk9111/ballpit/sched"
)

// describedElement is an element that can name itself.
type describedElement interface {
	Tag() string
	Text() string
	Index() int
}

// Registration is a pending or live boundary registration.
type Registration struct {
	mapper     *BoundaryMapper
	sched      *sched.Scheduler
	id         string
	el         Element
	opts       Options
	timer      sched.TimerID
	pending    bool
	registered bool
}

// Attach registers el with the mapper after delay, giving page layout time
// to settle. An empty id is derived from the element's tag, text and index
// when it can describe itself.
func Attach(s *sched.Scheduler, m *BoundaryMapper, el Element, id string, opts Options, delay time.Duration) *Registration {
	if id == "" {
		if d, ok := el.(describedElement); ok {
			id = page.GenerateID(d.Tag(), d.Text(), d.Index())
		}
	}
	r := &Registration{mapper: m, sched: s, id: id, el: el, opts: opts}
	if m == nil || el == nil || id == "" {
		log.Printf("BoundaryMapper: attach %q missing mapper or element", id)
		return r
	}
	if s == nil || delay <= 0 {
		r.register()
		return r
	}
	r.pending = true
	r.timer = s.After(delay, func() {
		r.pending = false
		r.register()
	})
	return r
}

func (r *Registration) register() {
	r.registered = r.mapper.Register(r.id, r.el, r.opts) != nil
}

func (r *Registration) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

func (r *Registration) Registered() bool {
	return r != nil && r.registered
}

func (r *Registration) Pending() bool {
	return r != nil && r.pending
}

// Update replaces the options. A live registration is re-registered so the
// new material takes effect.
func (r *Registration) Update(opts Options) {
	if r == nil {
		return
	}
	r.opts = opts
	if r.registered {
		r.mapper.Unregister(r.id)
		r.register()
	}
}

// Destroy cancels a pending registration or unregisters a live one.
func (r *Registration) Destroy() {
	if r == nil {
		return
	}
	if r.pending && r.sched != nil {
		r.sched.Cancel(r.timer)
		r.pending = false
	}
	if r.registered {
		r.mapper.Unregister(r.id)
		r.registered = false
	}
}

// OptionsFromSpec converts a card's page boundary settings. Unset fields
// stay zero so the mapper applies engine defaults.
func OptionsFromSpec(spec page.BoundarySpec) Options {
	r := spec.Reaction
	return Options{
		Type:              BoundaryType(strings.ToLower(spec.Type)),
		Shape:             ShapeKind(strings.ToLower(spec.Shape)),
		VelocityThreshold: spec.VelocityThreshold,
		Restitution:       spec.Restitution,
		Friction:          spec.Friction,
		Reaction: Reaction{
			Scale:      r.Scale,
			Brightness: r.Brightness,
			Saturate:   r.Saturate,
			HueRotate:  r.HueRotate,
			Blur:       r.Blur,
			DropShadow: r.DropShadow,
			Duration:   time.Duration(r.DurationMS) * time.Millisecond,
		},
	}
}
