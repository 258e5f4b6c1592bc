package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ballpit/physics"
)

const (
	velocityScale = 0.1
	jointDotSize  = 6
)

var (
	debugBallColor     = cp.FColor{R: 0.35, G: 1, B: 0.45, A: 0.85}
	debugStaticColor   = cp.FColor{R: 0.3, G: 0.65, B: 1, A: 0.8}
	debugReactiveColor = cp.FColor{R: 1, G: 0.35, B: 0.85, A: 0.9}
	debugWallColor     = cp.FColor{R: 0.6, G: 0.6, B: 0.6, A: 0.5}
	debugJointColor    = cp.FColor{R: 1, G: 0.55, B: 0.1, A: 0.95}
	debugVelocityColor = color.NRGBA{R: 255, G: 220, B: 60, A: 220}
)

// drawPhysicsDebug outlines every collider in the space, offset to where
// the canvas sits on screen.
func drawPhysicsDebug(space *cp.Space, screen *ebiten.Image, ox, oy float64) {
	if space == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &overlay{screen: screen, ox: ox, oy: oy})
}

func drawVelocities(balls []*physics.Ball, screen *ebiten.Image, ox, oy float64) {
	for _, b := range balls {
		p, v := b.Position(), b.Velocity()
		x, y := float32(p.X+ox), float32(p.Y+oy)
		vector.StrokeLine(screen, x, y, x+float32(v.X*velocityScale), y+float32(v.Y*velocityScale), 1, debugVelocityColor, true)
	}
}

// overlay draws colliders as outlines: balls with a spoke showing their
// rotation, card boundaries by type, walls dimmed.
type overlay struct {
	screen *ebiten.Image
	ox, oy float64
}

func (o *overlay) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	c := toNRGBA(fill)
	x, y := float32(pos.X+o.ox), float32(pos.Y+o.oy)
	vector.StrokeCircle(o.screen, x, y, float32(radius), 1, c, true)
	vector.StrokeLine(o.screen, x, y, x+float32(math.Cos(angle)*radius), y+float32(math.Sin(angle)*radius), 1, c, true)
}

func (o *overlay) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	o.line(a, b, fill)
}

func (o *overlay) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	w := float32(math.Max(1, radius*2))
	vector.StrokeLine(o.screen, float32(a.X+o.ox), float32(a.Y+o.oy), float32(b.X+o.ox), float32(b.Y+o.oy), w, toNRGBA(fill), true)
}

func (o *overlay) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count < 2 {
		return
	}
	for i := 0; i < count; i++ {
		o.line(verts[i], verts[(i+1)%count], fill)
	}
}

// DrawDot marks pivot anchors, which only the drag joint produces.
func (o *overlay) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = jointDotSize
	}
	vector.FillRect(o.screen, float32(pos.X+o.ox-size/2), float32(pos.Y+o.oy-size/2), float32(size), float32(size), toNRGBA(fill), false)
}

func (o *overlay) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS
}

func (o *overlay) OutlineColor() cp.FColor {
	return debugWallColor
}

func (o *overlay) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	switch v := shape.UserData.(type) {
	case *physics.Ball:
		return debugBallColor
	case *physics.Boundary:
		if v.Type == physics.BoundaryReactive {
			return debugReactiveColor
		}
		return debugStaticColor
	}
	return debugWallColor
}

func (o *overlay) ConstraintColor() cp.FColor {
	return debugJointColor
}

func (o *overlay) CollisionPointColor() cp.FColor {
	return debugJointColor
}

func (o *overlay) Data() interface{} {
	return nil
}

func (o *overlay) line(a, b cp.Vector, c cp.FColor) {
	vector.StrokeLine(o.screen, float32(a.X+o.ox), float32(a.Y+o.oy), float32(b.X+o.ox), float32(b.Y+o.oy), 1, toNRGBA(c), true)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	return float32(math.Max(0, math.Min(1, float64(v))))
}
