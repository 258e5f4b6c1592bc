// Package ui holds the on-screen controls drawn over the simulation.
package ui

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/ballpit/chute"
	"golang.org/x/image/font/basicfont"
)

// ChutePanel shows how many balls wait in the chute and releases them.
type ChutePanel struct {
	UI *ebitenui.UI

	label   *widget.Text
	release *widget.Button
	clear   *widget.Button
	unsub   []func()
}

// QueueLabel is the fill text shown on the panel.
func QueueLabel(n, capacity int) string {
	return fmt.Sprintf("Chute %d/%d", n, capacity)
}

// NewChutePanel builds a small panel in the bottom-left corner with a
// release button enabled only while the queue holds balls.
func NewChutePanel(q *chute.Queue, release func(), clear func()) *ChutePanel {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 170})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x55, A: 255})
	btnDisabled := imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 180})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white, Disabled: color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}}
	btnImage := &widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnImg, Disabled: btnDisabled}
	rowData := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	p := &ChutePanel{}
	p.label = widget.NewText(
		widget.TextOpts.Text(QueueLabel(q.Len(), q.Cap()), &face, white),
		widget.TextOpts.WidgetOpts(rowData),
	)
	p.release = widget.NewButton(
		widget.ButtonOpts.Image(btnImage),
		widget.ButtonOpts.Text("Release", &face, btnTextColor),
		widget.ButtonOpts.TextPadding(&widget.Insets{Left: 10, Right: 10, Top: 4, Bottom: 4}),
		widget.ButtonOpts.WidgetOpts(rowData),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if release != nil {
				release()
			}
		}),
	)
	p.clear = widget.NewButton(
		widget.ButtonOpts.Image(btnImage),
		widget.ButtonOpts.Text("Clear", &face, btnTextColor),
		widget.ButtonOpts.TextPadding(&widget.Insets{Left: 10, Right: 10, Top: 4, Bottom: 4}),
		widget.ButtonOpts.WidgetOpts(rowData),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if clear != nil {
				clear()
			}
		}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionStart, VerticalPosition: widget.AnchorLayoutPositionEnd}),
		),
	)
	panel.AddChild(p.label)
	panel.AddChild(p.release)
	panel.AddChild(p.clear)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout(widget.AnchorLayoutOpts.Padding(widget.NewInsetsSimple(16)))),
	)
	root.AddChild(panel)
	p.UI = &ebitenui.UI{Container: root}

	p.unsub = append(p.unsub,
		q.Length.Subscribe(func(n int) {
			p.label.Label = QueueLabel(n, q.Cap())
		}),
		q.CanRelease.Subscribe(func(ok bool) {
			p.release.GetWidget().Disabled = !ok
			p.clear.GetWidget().Disabled = !ok
		}),
	)
	return p
}

// ReleaseEnabled reports whether the release button accepts clicks.
func (p *ChutePanel) ReleaseEnabled() bool {
	return p != nil && !p.release.GetWidget().Disabled
}

// Label returns the current fill text.
func (p *ChutePanel) Label() string {
	if p == nil {
		return ""
	}
	return p.label.Label
}

// Close drops the queue subscriptions.
func (p *ChutePanel) Close() {
	if p == nil {
		return
	}
	for _, fn := range p.unsub {
		fn()
	}
	p.unsub = nil
}
