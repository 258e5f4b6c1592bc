package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ballpit/interact"
)

// windowCursor maps cursor requests onto the window cursor.
type windowCursor struct {
	current interact.CursorShape
}

func (c *windowCursor) SetCursor(shape interact.CursorShape) {
	if c.current == shape {
		return
	}
	c.current = shape
	switch shape {
	case interact.CursorPointer:
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	case interact.CursorGrabbing:
		ebiten.SetCursorShape(ebiten.CursorShapeMove)
	default:
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}
