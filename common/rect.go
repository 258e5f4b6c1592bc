package common

import "math"

// Rect is an axis-aligned rectangle with a top-left origin.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the rectangle midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// RelativeTo expresses r in a coordinate space whose origin is (ox, oy).
func (r Rect) RelativeTo(ox, oy float64) Rect {
	return Rect{X: r.X - ox, Y: r.Y - oy, Width: r.Width, Height: r.Height}
}

// SizeChanged reports whether width or height differ by more than eps.
func (r Rect) SizeChanged(other Rect, eps float64) bool {
	return math.Abs(r.Width-other.Width) > eps || math.Abs(r.Height-other.Height) > eps
}
