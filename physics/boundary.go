package physics

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ballpit/common"
	"github.com/milk9111/ballpit/page"
)

// DefaultResizeEpsilon is the size change below which a boundary is only
// moved, not rebuilt.
const DefaultResizeEpsilon = 0.5

// Element is the page element a boundary follows. The mapper never owns it.
type Element interface {
	BoundingClientRect() (common.Rect, bool)
	Style() page.Style
	SetStyle(page.Style)
}

// ObserveFunc subscribes fn to size changes of el and returns a function
// that disconnects it.
type ObserveFunc func(el Element, fn func()) (disconnect func())

type BoundaryType string

const (
	BoundaryStatic   BoundaryType = "static"
	BoundaryReactive BoundaryType = "reactive"
)

type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
)

// Options configures a boundary. Nil threshold and material fields take
// the engine defaults. A zero threshold reacts to every hit.
type Options struct {
	Type              BoundaryType
	Shape             ShapeKind
	VelocityThreshold *float64
	Restitution       *float64
	Friction          *float64
	Reaction          Reaction
}

// Boundary is one element mirrored as a static collider.
type Boundary struct {
	ID      string
	Element Element
	Body    *cp.Body
	Shape   *cp.Shape
	Kind    ShapeKind
	Type    BoundaryType
	Options Options
	// Rect is the last canvas-local rectangle the collider was built from.
	Rect common.Rect

	disconnect func()
}

// BoundaryMapper keeps static colliders in sync with page elements.
type BoundaryMapper struct {
	engine  *Engine
	canvas  Element
	observe ObserveFunc
	epsilon float64

	boundaries map[string]*Boundary
	order      []string
	byShape    map[*cp.Shape]*Boundary
}

// NewBoundaryMapper creates a mapper measuring against the canvas's offset
// parent. observe may be nil, in which case boundaries only move on
// explicit Resync calls.
func NewBoundaryMapper(engine *Engine, offsetParent Element, observe ObserveFunc) *BoundaryMapper {
	m := &BoundaryMapper{
		engine:     engine,
		canvas:     offsetParent,
		observe:    observe,
		epsilon:    DefaultResizeEpsilon,
		boundaries: make(map[string]*Boundary),
		byShape:    make(map[*cp.Shape]*Boundary),
	}
	if engine != nil {
		if eps := engine.cfg.Boundary.ResizeEpsilon; eps > 0 {
			m.epsilon = eps
		}
		engine.RegisterBoundaryMapper(m)
	}
	return m
}

// CanvasRect converts an element's viewport rectangle to canvas-local
// coordinates.
func (m *BoundaryMapper) CanvasRect(el Element) (common.Rect, bool) {
	if m == nil || el == nil {
		return common.Rect{}, false
	}
	r, ok := el.BoundingClientRect()
	if !ok {
		return common.Rect{}, false
	}
	if m.canvas != nil {
		if parent, ok := m.canvas.BoundingClientRect(); ok {
			r = r.RelativeTo(parent.X, parent.Y)
		}
	}
	return r, true
}

// Register mirrors el as a static collider. Registering a known id resyncs
// the existing collider and returns it. It returns nil when the element or
// world is unavailable.
func (m *BoundaryMapper) Register(id string, el Element, opts Options) (body *cp.Body) {
	if m == nil || m.engine == nil || m.engine.space == nil {
		log.Printf("BoundaryMapper: register %q without world", id)
		return nil
	}
	if el == nil {
		log.Printf("BoundaryMapper: register %q without element", id)
		return nil
	}
	if existing, ok := m.boundaries[id]; ok {
		if existing.Element != el {
			existing.Element = el
			m.watch(existing)
		}
		m.Resync(id, el)
		if b, ok := m.boundaries[id]; ok {
			return b.Body
		}
		return nil
	}
	rect, ok := m.CanvasRect(el)
	if !ok {
		log.Printf("BoundaryMapper: register %q on detached element", id)
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("BoundaryMapper: register %q: %v", id, r)
			body = nil
		}
	}()

	opts = m.resolve(opts)
	b := &Boundary{ID: id, Element: el, Kind: opts.Shape, Type: opts.Type, Options: opts}
	m.build(b, rect)
	m.boundaries[id] = b
	m.order = append(m.order, id)
	m.watch(b)
	m.engine.logf("BoundaryMapper: registered %s %s at %+v", id, b.Kind, rect)
	return b.Body
}

// watch observes b's current element, dropping any earlier observer.
func (m *BoundaryMapper) watch(b *Boundary) {
	if b.disconnect != nil {
		b.disconnect()
		b.disconnect = nil
	}
	if m.observe == nil {
		return
	}
	id := b.ID
	b.disconnect = m.observe(b.Element, func() {
		if cur, ok := m.boundaries[id]; ok {
			m.Resync(id, cur.Element)
		}
	})
}

func (m *BoundaryMapper) resolve(opts Options) Options {
	cfg := m.engine.cfg.Boundary
	if opts.Type == "" {
		opts.Type = BoundaryStatic
	}
	if opts.Shape == "" {
		opts.Shape = ShapeRectangle
	}
	if opts.VelocityThreshold == nil {
		v := cfg.VelocityThreshold
		opts.VelocityThreshold = &v
	}
	if opts.Restitution == nil {
		v := cfg.Restitution
		opts.Restitution = &v
	}
	if opts.Friction == nil {
		v := cfg.Friction
		opts.Friction = &v
	}
	rc := m.engine.cfg.Reaction
	if opts.Reaction.Scale == 0 {
		opts.Reaction.Scale = rc.Scale
	}
	if opts.Reaction.Brightness == 0 {
		opts.Reaction.Brightness = rc.Brightness
	}
	if opts.Reaction.Duration <= 0 {
		opts.Reaction.Duration = rc.Duration()
	}
	return opts
}

// build creates the collider for rect and adds it to the world.
func (m *BoundaryMapper) build(b *Boundary, rect common.Rect) {
	space := m.engine.space
	body := cp.NewStaticBody()
	cx, cy := rect.Center()
	body.SetPosition(cp.Vector{X: cx, Y: cy})

	var shape *cp.Shape
	if b.Kind == ShapeCircle {
		shape = cp.NewCircle(body, math.Max(math.Min(rect.Width, rect.Height)/2, 0.5), cp.Vector{})
	} else {
		shape = cp.NewBox(body, math.Max(rect.Width, 1), math.Max(rect.Height, 1), 0)
	}
	shape.SetElasticity(*b.Options.Restitution)
	shape.SetFriction(*b.Options.Friction)
	shape.SetCollisionType(collisionTypeBoundary)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryBoundary, cp.ALL_CATEGORIES))
	body.UserData = b
	shape.UserData = b

	space.AddBody(body)
	space.AddShape(shape)
	b.Body = body
	b.Shape = shape
	b.Rect = rect
	m.byShape[shape] = b
	m.engine.registerDomBoundary(body, b.ID)
}

func (m *BoundaryMapper) destroy(b *Boundary) {
	delete(m.byShape, b.Shape)
	if m.engine != nil {
		m.engine.unregisterDomBoundary(b.Body)
		if space := m.engine.space; space != nil {
			if space.ContainsShape(b.Shape) {
				space.RemoveShape(b.Shape)
			}
			if space.ContainsBody(b.Body) {
				space.RemoveBody(b.Body)
			}
		}
	}
	b.Body, b.Shape = nil, nil
}

// Resync re-measures the element. A size change beyond the epsilon rebuilds
// the collider; otherwise the existing collider is moved. A detached
// element leaves the boundary as it was.
func (m *BoundaryMapper) Resync(id string, el Element) {
	if m == nil || m.engine == nil || m.engine.space == nil {
		return
	}
	b, ok := m.boundaries[id]
	if !ok {
		return
	}
	if el == nil {
		el = b.Element
	}
	rect, ok := m.CanvasRect(el)
	if !ok {
		return
	}
	b.Element = el

	if rect.SizeChanged(b.Rect, m.epsilon) {
		m.destroy(b)
		m.build(b, rect)
		m.engine.logf("BoundaryMapper: rebuilt %s at %vx%v", id, rect.Width, rect.Height)
		return
	}

	// Static shapes are only reindexed when added, so the shape goes out
	// and back in around the move.
	space := m.engine.space
	cx, cy := rect.Center()
	space.RemoveShape(b.Shape)
	b.Body.SetPosition(cp.Vector{X: cx, Y: cy})
	space.AddShape(b.Shape)
	b.Rect = rect
}

// Unregister removes the boundary and stops observing its element.
func (m *BoundaryMapper) Unregister(id string) {
	if m == nil {
		return
	}
	b, ok := m.boundaries[id]
	if !ok {
		return
	}
	if b.disconnect != nil {
		b.disconnect()
		b.disconnect = nil
	}
	m.destroy(b)
	delete(m.boundaries, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.engine != nil {
		m.engine.logf("BoundaryMapper: unregistered %s", id)
	}
}

// UnregisterAll removes every boundary.
func (m *BoundaryMapper) UnregisterAll() {
	if m == nil {
		return
	}
	for _, id := range append([]string(nil), m.order...) {
		m.Unregister(id)
	}
}

// ResyncAll resyncs every boundary, in registration order.
func (m *BoundaryMapper) ResyncAll() {
	if m == nil {
		return
	}
	for _, id := range append([]string(nil), m.order...) {
		if b, ok := m.boundaries[id]; ok {
			m.Resync(id, b.Element)
		}
	}
}

func (m *BoundaryMapper) Boundary(id string) (*Boundary, bool) {
	if m == nil {
		return nil, false
	}
	b, ok := m.boundaries[id]
	return b, ok
}

// Boundaries returns every boundary in registration order.
func (m *BoundaryMapper) Boundaries() []*Boundary {
	if m == nil {
		return nil
	}
	out := make([]*Boundary, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.boundaries[id])
	}
	return out
}

func (m *BoundaryMapper) boundaryForShape(shape *cp.Shape) *Boundary {
	if m == nil || shape == nil {
		return nil
	}
	return m.byShape[shape]
}
