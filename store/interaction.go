package store

import (
	"time"

	"github.com/milk9111/ballpit/sched"
)

// Mode is the global canvas interaction mode.
type Mode string

const (
	ModeNormalBrowsing  Mode = "normal_browsing"
	ModeBallInteraction Mode = "ball_interaction"
)

// PointerEvents mirrors the canvas pointer-events value. The empty value
// means no override.
type PointerEvents string

const (
	PointerEventsUnset PointerEvents = ""
	PointerEventsAuto  PointerEvents = "auto"
	PointerEventsNone  PointerEvents = "none"
)

// Interaction decides whether the canvas intercepts pointer input or lets it
// pass through to the page underneath.
type Interaction struct {
	mode          *Writable[Mode]
	override      *Writable[PointerEvents]
	pointerEvents *Writable[PointerEvents]
}

func NewInteraction() *Interaction {
	in := &Interaction{
		mode:          NewWritable(ModeNormalBrowsing),
		override:      NewWritable(PointerEventsUnset),
		pointerEvents: NewWritable(PointerEventsNone),
	}
	in.mode.Subscribe(func(Mode) { in.recompute() })
	in.override.Subscribe(func(PointerEvents) { in.recompute() })
	return in
}

func (in *Interaction) recompute() {
	next := in.override.Get()
	if next == PointerEventsUnset {
		next = PointerEventsNone
		if in.mode.Get() == ModeBallInteraction {
			next = PointerEventsAuto
		}
	}
	if next != in.pointerEvents.Get() {
		in.pointerEvents.Set(next)
	}
}

func (in *Interaction) Mode() Mode {
	if in == nil {
		return ModeNormalBrowsing
	}
	return in.mode.Get()
}

func (in *Interaction) SetMode(m Mode) {
	if in == nil {
		return
	}
	if m == in.mode.Get() {
		return
	}
	in.mode.Set(m)
}

func (in *Interaction) EnableBallInteraction() { in.SetMode(ModeBallInteraction) }
func (in *Interaction) EnableNormalBrowsing()  { in.SetMode(ModeNormalBrowsing) }

// Lock forces the pointer-events value regardless of mode.
func (in *Interaction) Lock(pe PointerEvents) {
	if in == nil {
		return
	}
	in.override.Set(pe)
}

// Unlock clears the override and restores mode-driven behaviour.
func (in *Interaction) Unlock() {
	in.Lock(PointerEventsUnset)
}

func (in *Interaction) PointerEvents() PointerEvents {
	if in == nil {
		return PointerEventsNone
	}
	return in.pointerEvents.Get()
}

// Intercepts reports whether pointer events over the canvas belong to the
// simulation.
func (in *Interaction) Intercepts() bool {
	return in.PointerEvents() == PointerEventsAuto
}

func (in *Interaction) SubscribeMode(fn func(Mode)) func() {
	return in.mode.Subscribe(fn)
}

func (in *Interaction) SubscribePointerEvents(fn func(PointerEvents)) func() {
	return in.pointerEvents.Subscribe(fn)
}

// TemporaryBallInteraction enables ball interaction and drops back to
// normal browsing after d.
func (in *Interaction) TemporaryBallInteraction(s *sched.Scheduler, d time.Duration) sched.TimerID {
	if in == nil || s == nil {
		return 0
	}
	if d <= 0 {
		d = 2 * time.Second
	}
	in.EnableBallInteraction()
	return s.After(d, in.EnableNormalBrowsing)
}
