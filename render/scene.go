// Package render draws the page, the chute and the ball simulation.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/ballpit/common"
	"github.com/milk9111/ballpit/config"
	"github.com/milk9111/ballpit/page"
	"github.com/milk9111/ballpit/physics"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	cardPadding   = 18
	cardRadius    = 10
	chuteWidthPad = 10
)

var defaultCardColor = color.NRGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}

// Scene draws one frame of the playground.
type Scene struct {
	engine *physics.Engine
	page   *page.Page
	cfg    config.RenderingConfig

	headerFace *text.GoTextFace
	titleFace  *text.GoTextFace
	bodyFace   *text.GoTextFace

	cards  map[*page.Element]*Appearance
	colors map[string]color.NRGBA
	debug  bool
}

func NewScene(engine *physics.Engine, pg *page.Page, cfg config.RenderingConfig) (*Scene, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("render: load font: %w", err)
	}
	return &Scene{
		engine:     engine,
		page:       pg,
		cfg:        cfg,
		headerFace: &text.GoTextFace{Source: src, Size: 32},
		titleFace:  &text.GoTextFace{Source: src, Size: 20},
		bodyFace:   &text.GoTextFace{Source: src, Size: 14},
		cards:      make(map[*page.Element]*Appearance),
		colors:     make(map[string]color.NRGBA),
	}, nil
}

func (s *Scene) SetDebug(debug bool) {
	if s == nil {
		return
	}
	s.debug = debug
}

func (s *Scene) SetConfig(cfg config.RenderingConfig) {
	if s == nil {
		return
	}
	s.cfg = cfg
}

// Appearance returns the eased appearance of a card element.
func (s *Scene) Appearance(el *page.Element) (*Appearance, bool) {
	if s == nil {
		return nil, false
	}
	a, ok := s.cards[el]
	return a, ok
}

// Update syncs card appearances with their styles and advances the tweens
// by dt seconds.
func (s *Scene) Update(dt float64) {
	if s == nil || s.page == nil {
		return
	}
	live := make(map[*page.Element]bool)
	for _, el := range s.page.Cards() {
		live[el] = true
		a, ok := s.cards[el]
		if !ok {
			a = NewAppearance()
			s.cards[el] = a
		}
		a.Sync(el.Style())
		a.Update(dt)
	}
	for el := range s.cards {
		if !live[el] {
			delete(s.cards, el)
		}
	}
}

// Draw renders the frame. A panic while drawing is logged and the frame is
// dropped.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s == nil || screen == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Scene: draw error: %v", r)
		}
	}()

	screen.Fill(s.cfg.Background.NRGBA)
	s.drawHeader(screen)
	for _, el := range s.page.Cards() {
		s.drawCard(screen, el)
	}

	canvas, ok := s.page.Canvas().BoundingClientRect()
	if !ok {
		return
	}
	ox, oy := canvas.X, canvas.Y
	s.drawDrain(screen, ox, oy)
	s.drawChute(screen, ox, oy)
	for _, b := range s.engine.Balls() {
		s.drawBall(screen, b, ox, oy)
	}
	if s.debug {
		drawPhysicsDebug(s.engine.Space(), screen, ox, oy)
		drawVelocities(s.engine.Balls(), screen, ox, oy)
		s.drawStats(screen)
	}
}

func (s *Scene) drawHeader(screen *ebiten.Image) {
	r, ok := s.page.Header().BoundingClientRect()
	if !ok || r.Bottom() < 0 {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(r.X+32, r.Y+r.Height/2-s.headerFace.Size/2)
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(screen, s.page.Title(), s.headerFace, op)
}

func (s *Scene) drawCard(screen *ebiten.Image, el *page.Element) {
	r, ok := el.BoundingClientRect()
	if !ok {
		return
	}
	_, vh := s.page.Viewport()
	if r.Bottom() < 0 || r.Y > vh {
		return
	}
	card := el.Card()
	base := defaultCardColor
	if card != nil {
		base = s.color(card.Color)
	}

	scale, brightness, saturate, hue := 1.0, 1.0, 1.0, 0.0
	if a, ok := s.cards[el]; ok {
		scale, brightness, saturate, hue = a.Values()
	}
	cx, cy := r.Center()
	w, h := r.Width*scale, r.Height*scale
	x, y := cx-w/2, cy-h/2

	var cm colorm.ColorM
	cm.ChangeHSV(hue*math.Pi/180, saturate, brightness)
	fill := cm.Apply(base)

	vector.FillRect(screen, float32(x), float32(y+4), float32(w), float32(h), color.NRGBA{A: 70}, true)
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), fill, true)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, color.NRGBA{R: 255, G: 255, B: 255, A: 40}, true)

	if card == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x+cardPadding, y+cardPadding)
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(screen, card.Title, s.titleFace, op)

	lineH := s.bodyFace.Size * 1.4
	lines := wrapText(card.Text, w-2*cardPadding, func(str string) float64 {
		return text.Advance(str, s.bodyFace)
	})
	for i, line := range lines {
		ty := y + cardPadding + s.titleFace.Size*1.6 + float64(i)*lineH
		if ty+lineH > y+h-cardPadding/2 {
			break
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+cardPadding, ty)
		op.ColorScale.ScaleWithColor(colornames.Lightgray)
		text.Draw(screen, line, s.bodyFace, op)
	}
}

func (s *Scene) color(css string) color.NRGBA {
	if c, ok := s.colors[css]; ok {
		return c
	}
	c, err := config.ParseColor(css)
	if err != nil || css == "" {
		c = defaultCardColor
	}
	s.colors[css] = c
	return c
}

func (s *Scene) drawDrain(screen *ebiten.Image, ox, oy float64) {
	d := s.engine.Drain()
	x, y := float32(d.X+ox), float32(d.Y+oy)
	vector.StrokeCircle(screen, x, y, float32(d.ShrinkZone), 1, color.NRGBA{R: 255, G: 255, B: 255, A: 30}, true)
	vector.FillCircle(screen, x, y, float32(d.Radius), color.NRGBA{R: 0, G: 0, B: 0, A: 160}, true)
	vector.StrokeCircle(screen, x, y, float32(d.Radius), 2, colornames.Slategray, true)
}

// drawChute draws the tube the queued balls wait in, ending at the exit.
func (s *Scene) drawChute(screen *ebiten.Image, ox, oy float64) {
	q := s.engine.Queue()
	if q == nil {
		return
	}
	ex, ey := s.engine.ChuteExit()
	tubeW := 2*32.0 + chuteWidthPad
	for _, b := range q.Balls() {
		tubeW = math.Max(tubeW, 2*b.Radius+chuteWidthPad)
	}
	x := ex - tubeW/2 + ox
	vector.FillRect(screen, float32(x), float32(oy), float32(tubeW), float32(ey), color.NRGBA{R: 255, G: 255, B: 255, A: 18}, true)
	vector.StrokeRect(screen, float32(x), float32(oy), float32(tubeW), float32(ey), 1, color.NRGBA{R: 255, G: 255, B: 255, A: 60}, true)

	// Newest on top, oldest at the exit.
	balls := q.Balls()
	y := ey + oy
	for i := 0; i < len(balls); i++ {
		b := balls[i]
		y -= b.Radius
		if y < oy {
			break
		}
		vector.FillCircle(screen, float32(ex+ox), float32(y), float32(b.Radius*0.5), b.Color, true)
		y -= b.Radius
	}
	label := fmt.Sprintf("%d/%d", q.Len(), q.Cap())
	ebitenutil.DebugPrintAt(screen, label, int(x), int(ey+oy)+4)
}

func (s *Scene) drawBall(screen *ebiten.Image, b *physics.Ball, ox, oy float64) {
	p := b.Position()
	x, y := float32(p.X+ox), float32(p.Y+oy)
	r := float32(b.DrawRadius())
	if r <= 0 {
		return
	}
	shadow := uint8(common.Clamp(s.cfg.ShadowAlpha, 0, 1) * 255)
	vector.FillCircle(screen, x+r*0.12, y+r*0.18, r, color.NRGBA{A: shadow / 2}, true)
	vector.FillCircle(screen, x+r*0.06, y+r*0.09, r, color.NRGBA{A: shadow}, true)

	if s.engine.VisualState(b) == physics.VisualHovered {
		glow := s.cfg.GlowColor.NRGBA
		steps := 6
		for i := steps; i > 0; i-- {
			t := float32(i) / float32(steps)
			c := glow
			c.A = uint8(float32(glow.A) * (1 - t) * 0.5)
			vector.FillCircle(screen, x, y, r+float32(s.cfg.GlowRadius)*t, c, true)
		}
	}
	vector.FillCircle(screen, x, y, r, b.Color, true)
	if s.engine.VisualState(b) == physics.VisualDragged {
		vector.StrokeCircle(screen, x, y, r, 2, colornames.White, true)
	}
	// Highlight.
	vector.FillCircle(screen, x-r*0.35, y-r*0.35, r*0.25, color.NRGBA{R: 255, G: 255, B: 255, A: 60}, true)
}

func (s *Scene) drawStats(screen *ebiten.Image) {
	st := s.engine.Stats()
	ebitenutil.DebugPrintAt(screen, FormatStats(st, ebiten.ActualFPS()), 10, 10)
}

// FormatStats renders the debug HUD text.
func FormatStats(st physics.Stats, fps float64) string {
	return fmt.Sprintf("state: %s\ncanvas: %.0fx%.0f\nballs: %d (collecting %d)\nboundaries: %d\nchute: %d/%d\nfps: %.1f",
		st.State, st.Width, st.Height, st.Balls, st.Collecting, st.Boundaries, st.Queued, st.Capacity, fps)
}

// wrapText breaks s into lines no wider than width.
func wrapText(s string, width float64, measure func(string) float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if measure(candidate) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(lines, line)
}
