package page

import (
	"testing"

	"github.com/milk9111/ballpit/common"
)

func testDoc() *Document {
	return &Document{
		Title: "Test",
		Layout: LayoutSpec{
			HeaderHeight: 100,
			Padding:      20,
			Gap:          10,
			MinCardWidth: 200,
			CardHeight:   150,
		},
		Cards: []CardSpec{
			{ID: "a", Title: "A"},
			{ID: "b", Title: "B"},
			{ID: "c", Title: "C"},
		},
	}
}

func TestDefaultDocumentLoads(t *testing.T) {
	doc, err := Load("")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if len(doc.Cards) == 0 {
		t.Fatalf("default page has no cards")
	}
	for _, c := range doc.Cards {
		if c.ID == "" {
			t.Fatalf("default card without id: %+v", c)
		}
	}
}

func TestFlowLayoutColumns(t *testing.T) {
	cases := []struct {
		name     string
		width    float64
		wantCols int
	}{
		{"narrow", 300, 1},
		{"two", 460, 2},
		{"wide", 1000, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := New(testDoc(), c.width, 600)
			cards := p.Cards()
			cols := 0
			for _, el := range cards {
				if el.DocumentRect().Y == cards[0].DocumentRect().Y {
					cols++
				}
			}
			if cols != c.wantCols {
				t.Fatalf("columns = %d, want %d", cols, c.wantCols)
			}
			main := p.Main().DocumentRect()
			for _, el := range cards {
				r := el.DocumentRect()
				if r.Right() > main.Right()+1e-9 || r.Bottom() > main.Bottom()+1e-9 || r.Y < main.Y {
					t.Fatalf("card %s %+v outside main %+v", el.ID(), r, main)
				}
			}
		})
	}
}

func TestResizeObserverNotifications(t *testing.T) {
	p := New(testDoc(), 1000, 600)
	el, _ := p.Element("a")
	calls := 0
	obs := p.ObserveResize(el, func() { calls++ })

	p.Flush()
	if calls != 1 {
		t.Fatalf("expected initial notification, got %d", calls)
	}

	r := el.DocumentRect()
	p.SetRect("a", common.Rect{X: r.X + 50, Y: r.Y, Width: r.Width, Height: r.Height})
	p.Flush()
	if calls != 1 {
		t.Fatalf("a pure move must not notify, got %d", calls)
	}

	p.SetRect("a", common.Rect{X: r.X, Y: r.Y, Width: r.Width + 10, Height: r.Height})
	p.SetRect("a", common.Rect{X: r.X, Y: r.Y, Width: r.Width + 20, Height: r.Height})
	p.Flush()
	if calls != 2 {
		t.Fatalf("size changes in one frame should coalesce, got %d", calls)
	}

	obs.Disconnect()
	obs.Disconnect()
	p.SetRect("a", common.Rect{Width: 5, Height: 5})
	p.Flush()
	if calls != 2 {
		t.Fatalf("disconnected observer was called")
	}
}

func TestScrollMovesViewportRects(t *testing.T) {
	p := New(testDoc(), 300, 200)
	el, _ := p.Element("c")
	before, ok := el.BoundingClientRect()
	if !ok {
		t.Fatalf("attached element reported detached")
	}
	p.Scroll(80)
	after, _ := el.BoundingClientRect()
	if after.Y != before.Y-80 {
		t.Fatalf("viewport Y = %v, want %v", after.Y, before.Y-80)
	}
	mainRect, _ := p.Main().BoundingClientRect()
	local := after.RelativeTo(mainRect.X, mainRect.Y)
	if local.Y != el.DocumentRect().Y-p.Main().DocumentRect().Y {
		t.Fatalf("canvas-local position must not depend on scroll")
	}
	p.Scroll(1e9)
	if p.ScrollY() > p.Main().DocumentRect().Bottom() {
		t.Fatalf("scroll not clamped: %v", p.ScrollY())
	}
}

func TestApplyAndDetach(t *testing.T) {
	p := New(testDoc(), 1000, 600)
	a, _ := p.Element("a")

	doc := testDoc()
	doc.Cards = []CardSpec{{ID: "a", Title: "A2"}, {ID: "d", Title: "D"}}
	added, removed := p.Apply(doc)
	if len(added) != 1 || added[0].ID() != "d" {
		t.Fatalf("added = %v", added)
	}
	if len(removed) != 2 {
		t.Fatalf("removed = %d, want 2", len(removed))
	}
	for _, el := range removed {
		if _, ok := el.BoundingClientRect(); ok {
			t.Fatalf("removed element %s still measurable", el.ID())
		}
	}
	if got, _ := p.Element("a"); got != a || a.Text() != "A2" {
		t.Fatalf("surviving card should keep its element and take new content")
	}

	if !p.Detach("a") || p.Detach("a") {
		t.Fatalf("detach should succeed once")
	}
	if a.Attached() {
		t.Fatalf("element still attached")
	}
}

func TestGenerateID(t *testing.T) {
	cases := []struct {
		tag, text string
		index     int
		want      string
	}{
		{"article", "Ball Pit Physics Playground", 0, "article-ball-pit-physics-0"},
		{"article", "", 2, "article-2"},
		{"DIV", "Hello, World!", 1, "div-hello-world-1"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			if got := GenerateID(c.tag, c.text, c.index); got != c.want {
				t.Fatalf("GenerateID = %q, want %q", got, c.want)
			}
		})
	}
}

func TestApplyGeneratesMissingIDs(t *testing.T) {
	doc := &Document{Cards: []CardSpec{{Title: "Untitled Side Project Here"}, {ID: "named", Title: "Named"}}}
	p := New(doc, 1000, 700)
	cards := p.Cards()
	if len(cards) != 2 || cards[0].ID() != "article-untitled-side-project-0" {
		t.Fatalf("cards %v", cards)
	}
	if _, ok := p.Element("article-untitled-side-project-0"); !ok {
		t.Fatalf("generated id not indexed")
	}
}

func TestLayoutObserverSeesMoves(t *testing.T) {
	p := New(testDoc(), 1000, 600)
	p.Flush()
	layouts, resizes := 0, 0
	obs := p.ObserveLayout(func() { layouts++ })
	b, _ := p.Element("b")
	p.ObserveResize(b, func() { resizes++ })
	p.Flush()
	if layouts != 0 || resizes != 1 {
		t.Fatalf("after observe: layouts %d resizes %d", layouts, resizes)
	}

	r := b.DocumentRect()
	p.SetRect("b", common.Rect{X: r.X + 40, Y: r.Y, Width: r.Width, Height: r.Height})
	p.SetRect("c", common.Rect{X: 0, Y: 0, Width: r.Width, Height: r.Height})
	p.Flush()
	if layouts != 1 || resizes != 1 {
		t.Fatalf("after move: layouts %d resizes %d, want 1 and 1", layouts, resizes)
	}

	p.Detach("a")
	p.Flush()
	if layouts != 2 {
		t.Fatalf("detach shifting cards should notify layout, got %d", layouts)
	}

	obs.Disconnect()
	p.SetRect("b", common.Rect{X: 5, Y: 5, Width: r.Width, Height: r.Height})
	p.Flush()
	if layouts != 2 {
		t.Fatalf("disconnected layout observer still notified")
	}
}
