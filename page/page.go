// Package page models the portfolio page the simulation lives on: a header,
// a main container the canvas covers, and project cards laid out in a
// responsive grid. It stands in for the browser DOM: elements have boxes,
// styles and resize observers, and scrolling moves them in the viewport.
package page

import (
	"log"
	"math"

	"github.com/milk9111/ballpit/common"
)

const (
	TagHeader  = "header"
	TagMain    = "main"
	TagCanvas  = "canvas"
	TagArticle = "article"
)

// Card is the content and physics metadata of a project card.
type Card struct {
	ID       string
	Title    string
	Text     string
	Color    string
	Height   float64
	Boundary BoundarySpec
}

type Page struct {
	title     string
	layout    LayoutSpec
	viewportW float64
	viewportH float64
	scrollX   float64
	scrollY   float64

	header *Element
	main   *Element
	canvas *Element
	cards  []*Element
	byID   map[string]*Element

	observers       map[*Element][]*ResizeObserver
	layoutObservers []*ResizeObserver
	pending         []*Element
	moved           bool
}

// New builds a page from a document and lays it out for the viewport.
func New(doc *Document, viewportW, viewportH float64) *Page {
	if doc == nil {
		doc = &Document{}
	}
	p := &Page{
		byID:      make(map[string]*Element),
		observers: make(map[*Element][]*ResizeObserver),
	}
	p.header = p.newElement("page-header", TagHeader, "", 0)
	p.main = p.newElement("page-main", TagMain, "", 1)
	p.canvas = p.newElement("physics-canvas", TagCanvas, "", 0)
	p.Apply(doc)
	p.Resize(viewportW, viewportH)
	return p
}

func (p *Page) newElement(id, tag, text string, index int) *Element {
	el := &Element{page: p, id: id, tag: tag, text: text, index: index, attached: true}
	p.byID[id] = el
	return el
}

func (p *Page) Title() string {
	if p == nil {
		return ""
	}
	return p.title
}

// Main is the canvas offset parent.
func (p *Page) Main() *Element {
	if p == nil {
		return nil
	}
	return p.main
}

func (p *Page) Canvas() *Element {
	if p == nil {
		return nil
	}
	return p.canvas
}

func (p *Page) Header() *Element {
	if p == nil {
		return nil
	}
	return p.header
}

// Cards returns the attached cards in layout order.
func (p *Page) Cards() []*Element {
	if p == nil {
		return nil
	}
	return append([]*Element(nil), p.cards...)
}

func (p *Page) Element(id string) (*Element, bool) {
	if p == nil {
		return nil, false
	}
	el, ok := p.byID[id]
	return el, ok
}

// Apply replaces the page content. Cards keep their element when the id
// survives, new ids get new elements and missing ids are detached. The
// added and removed elements are returned so callers can (un)register them.
func (p *Page) Apply(doc *Document) (added, removed []*Element) {
	if p == nil || doc == nil {
		return nil, nil
	}
	p.title = doc.Title
	p.layout = doc.Layout.withDefaults()
	p.header.text = doc.Title

	keep := make(map[string]bool, len(doc.Cards))
	next := make([]*Element, 0, len(doc.Cards))
	for i, spec := range doc.Cards {
		card := spec.card()
		if card.ID == "" {
			card.ID = GenerateID(TagArticle, card.Title, i)
		}
		if keep[card.ID] {
			log.Printf("Page: duplicate card id %q, skipping", card.ID)
			continue
		}
		keep[card.ID] = true
		el, ok := p.byID[card.ID]
		if !ok || el.tag != TagArticle {
			el = p.newElement(card.ID, TagArticle, card.Title, i)
			added = append(added, el)
		}
		el.text = card.Title
		el.index = len(next)
		el.card = &card
		next = append(next, el)
	}
	for _, el := range p.cards {
		if !keep[el.id] {
			p.detach(el)
			removed = append(removed, el)
		}
	}
	p.cards = next
	p.flow()
	return added, removed
}

// Detach removes an element from the page. Observers get one last
// notification and then see the element as gone.
func (p *Page) Detach(id string) bool {
	if p == nil {
		return false
	}
	el, ok := p.byID[id]
	if !ok || !el.attached {
		return false
	}
	p.detach(el)
	for i, c := range p.cards {
		if c == el {
			p.cards = append(p.cards[:i], p.cards[i+1:]...)
			break
		}
	}
	p.flow()
	return true
}

func (p *Page) detach(el *Element) {
	el.attached = false
	delete(p.byID, el.id)
	p.queueResize(el)
}

// SetRect moves or resizes an element directly. Size changes queue resize
// notifications; moves only reach layout observers.
func (p *Page) SetRect(id string, r common.Rect) bool {
	if p == nil {
		return false
	}
	el, ok := p.byID[id]
	if !ok || !el.attached {
		return false
	}
	p.setRect(el, r)
	return true
}

func (p *Page) setRect(el *Element, r common.Rect) {
	old := el.rect
	el.rect = r
	if old.Width != r.Width || old.Height != r.Height {
		p.queueResize(el)
	}
	if old.X != r.X || old.Y != r.Y {
		p.moved = true
	}
}

// Resize sets the viewport size and re-flows the page. It reports whether
// the main container changed size.
func (p *Page) Resize(w, h float64) bool {
	if p == nil || w <= 0 || h <= 0 {
		return false
	}
	p.viewportW = w
	p.viewportH = h
	before := p.main.rect
	p.flow()
	after := p.main.rect
	return before.Width != after.Width || before.Height != after.Height
}

func (p *Page) Viewport() (float64, float64) {
	if p == nil {
		return 0, 0
	}
	return p.viewportW, p.viewportH
}

// Scroll moves the viewport by dy, clamped to the document.
func (p *Page) Scroll(dy float64) {
	if p == nil {
		return
	}
	p.ScrollTo(p.scrollY + dy)
}

func (p *Page) ScrollTo(y float64) {
	if p == nil {
		return
	}
	maxY := math.Max(0, p.main.rect.Bottom()-p.viewportH)
	p.scrollY = common.Clamp(y, 0, maxY)
}

func (p *Page) ScrollY() float64 {
	if p == nil {
		return 0
	}
	return p.scrollY
}

// flow lays the page out for the current viewport: the header spans the
// top, cards fill a grid inside main and main grows to fit them.
func (p *Page) flow() {
	if p.viewportW <= 0 {
		return
	}
	l := p.layout
	w := p.viewportW

	p.setRect(p.header, common.Rect{X: 0, Y: 0, Width: w, Height: l.HeaderHeight})

	cols := int((w - 2*l.Padding + l.Gap) / (l.MinCardWidth + l.Gap))
	if cols < 1 {
		cols = 1
	}
	if l.MaxColumns > 0 && cols > l.MaxColumns {
		cols = l.MaxColumns
	}
	cardW := (w - 2*l.Padding - float64(cols-1)*l.Gap) / float64(cols)
	if cardW < 1 {
		cardW = 1
	}

	top := l.HeaderHeight
	y := top + l.Padding
	rowH := 0.0
	for i, el := range p.cards {
		col := i % cols
		if col == 0 && i > 0 {
			y += rowH + l.Gap
			rowH = 0
		}
		h := el.card.Height
		if h <= 0 {
			h = l.CardHeight
		}
		x := l.Padding + float64(col)*(cardW+l.Gap)
		p.setRect(el, common.Rect{X: x, Y: y, Width: cardW, Height: h})
		rowH = math.Max(rowH, h)
	}
	contentBottom := y + rowH + l.Padding
	mainH := math.Max(contentBottom-top, p.viewportH-top)
	mainRect := common.Rect{X: 0, Y: top, Width: w, Height: mainH}
	p.setRect(p.main, mainRect)
	p.setRect(p.canvas, mainRect)
	p.ScrollTo(p.scrollY)
}
