// Package interact turns pointer input into ball drags and hover feedback.
package interact

import "github.com/milk9111/ballpit/common"

type CursorShape string

const (
	CursorDefault  CursorShape = "default"
	CursorPointer  CursorShape = "pointer"
	CursorGrabbing CursorShape = "grabbing"
)

// Cursor is the global pointer cursor.
type Cursor interface {
	SetCursor(CursorShape)
}

// Canvas is the element the simulation draws into.
type Canvas interface {
	BoundingClientRect() (common.Rect, bool)
}

// toCanvas converts viewport coordinates to canvas pixels. It reports false
// when the canvas is gone or the point lies outside it.
func toCanvas(c Canvas, x, y float64) (float64, float64, bool) {
	if c == nil {
		return 0, 0, false
	}
	r, ok := c.BoundingClientRect()
	if !ok || !r.Contains(x, y) {
		return 0, 0, false
	}
	return x - r.X, y - r.Y, true
}

type nopCursor struct{}

func (nopCursor) SetCursor(CursorShape) {}
