package physics

import (
	"strings"
	"testing"
	"time"

	"github.com/milk9111/ballpit/common"
	"github.com/milk9111/ballpit/config"
	"github.com/milk9111/ballpit/page"
	"github.com/milk9111/ballpit/sched"
)

func TestStyleComponentRoundTrip(t *testing.T) {
	cases := []struct {
		name, value, token string
	}{
		{"empty", "", "scale(1.04)"},
		{"existing", "translateY(2px)", "scale(1.04)"},
		{"same_token_present", "scale(1.04)", "scale(1.04)"},
		{"nested_parens", "brightness(0.9)", "drop-shadow(0 0 4px rgba(0, 0, 0, 0.5))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			applied := AppendStyleComponent(c.value, c.token)
			if got := StripStyleComponent(applied, c.token); got != c.value {
				t.Fatalf("round trip %q -> %q -> %q", c.value, applied, got)
			}
		})
	}
	if got := StripStyleComponent("rotate(2deg) scale(1.04) skew(1deg)", "scale(1.04)"); got != "rotate(2deg) skew(1deg)" {
		t.Fatalf("middle strip: %q", got)
	}
	if got := StripStyleComponent("xscale(1.04)", "scale(1.04)"); got != "xscale(1.04)" {
		t.Fatalf("partial match stripped: %q", got)
	}
}

func TestReactionTokens(t *testing.T) {
	r := Reaction{Scale: 1.05, Brightness: 1.2, HueRotate: 15, Blur: 1, DropShadow: "0 0 6px #fff"}
	if got := r.TransformTokens(); len(got) != 1 || got[0] != "scale(1.05)" {
		t.Fatalf("transform tokens %v", got)
	}
	want := "brightness(1.2) hue-rotate(15deg) blur(1px) drop-shadow(0 0 6px #fff)"
	if got := strings.Join(r.FilterTokens(), " "); got != want {
		t.Fatalf("filter tokens %q", got)
	}
	if len((Reaction{Scale: 1}).TransformTokens()) != 0 {
		t.Fatalf("unit scale should add nothing")
	}
}

func TestReactorCycleRestoresStyle(t *testing.T) {
	s := sched.New()
	r := NewReactor(s, 20*time.Millisecond)
	original := page.Style{Transform: "translateY(2px)", Filter: "grayscale(0.2)", Transition: "opacity 1s"}
	el := &fakeElement{rect: common.Rect{Width: 10, Height: 10}, style: original}
	cfg := Reaction{Scale: 1.04, Brightness: 1.2, Duration: 200 * time.Millisecond}

	if !r.Trigger(el, cfg) {
		t.Fatalf("Trigger returned false")
	}
	if el.style.Transform != "translateY(2px) scale(1.04)" || el.style.Filter != "grayscale(0.2) brightness(1.2)" {
		t.Fatalf("applied style %+v", el.style)
	}
	s.Advance(100 * time.Millisecond)
	if !r.Trigger(el, cfg) {
		t.Fatalf("second Trigger returned false")
	}
	if el.style.Transform != "translateY(2px) scale(1.04)" {
		t.Fatalf("overlapping reaction stacked: %q", el.style.Transform)
	}
	s.Advance(time.Second)
	if el.style != original {
		t.Fatalf("style after cycle %+v, want %+v", el.style, original)
	}
	if r.Active(el) || s.Pending() != 0 {
		t.Fatalf("reactor left work behind")
	}
}

func TestReactorSkipsDetachedElement(t *testing.T) {
	r := NewReactor(sched.New(), 0)
	el := &fakeElement{detached: true}
	if r.Trigger(el, Reaction{Scale: 1.1}) || el.writes != 0 {
		t.Fatalf("detached element was styled")
	}
}

func TestReactionThreshold(t *testing.T) {
	e, _, s := newTestEngine(t, func(c *config.Config) {
		c.Boundary.VelocityThreshold = 240
	})
	m := NewBoundaryMapper(e, nil, nil)
	original := page.Style{Transform: "rotate(1deg)"}
	el := &fakeElement{rect: common.Rect{X: 300, Y: 300, Width: 200, Height: 40}, style: original}
	m.Register("card", el, Options{Type: BoundaryReactive})
	b, _ := m.Boundary("card")

	slow := e.CreateBall(BallOptions{X: 100, Y: 100, VY: 100})
	e.handleBoundaryHit(slow, b.Shape)
	if el.writes != 0 || s.Pending() != 0 {
		t.Fatalf("slow hit mutated style")
	}

	fast := e.CreateBall(BallOptions{X: 200, Y: 100, VY: 400})
	e.handleBoundaryHit(fast, b.Shape)
	if el.writes != 1 {
		t.Fatalf("expected one apply, got %d writes", el.writes)
	}
	s.Advance(2 * time.Second)
	if el.writes != 3 {
		t.Fatalf("expected apply, revert and transition cleanup, got %d writes", el.writes)
	}
	if el.style != original {
		t.Fatalf("style after cycle %+v", el.style)
	}
}

func float64Ptr(v float64) *float64 { return &v }

func TestReactionThresholdOverrides(t *testing.T) {
	tests := []struct {
		name      string
		threshold *float64
		speed     float64
		wantWrite bool
	}{
		{"default blocks slow hit", nil, 100, false},
		{"zero reacts to any hit", float64Ptr(0), 1, true},
		{"card threshold above speed", float64Ptr(500), 400, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(t, func(c *config.Config) {
				c.Boundary.VelocityThreshold = 240
			})
			m := NewBoundaryMapper(e, nil, nil)
			el := &fakeElement{rect: common.Rect{X: 300, Y: 300, Width: 200, Height: 40}}
			m.Register("card", el, Options{Type: BoundaryReactive, VelocityThreshold: tt.threshold})
			b, _ := m.Boundary("card")
			ball := e.CreateBall(BallOptions{X: 100, Y: 100, VY: tt.speed})
			e.handleBoundaryHit(ball, b.Shape)
			if got := el.writes > 0; got != tt.wantWrite {
				t.Fatalf("reacted = %v, want %v", got, tt.wantWrite)
			}
		})
	}
}

func TestStaticBoundaryDoesNotReact(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	m := NewBoundaryMapper(e, nil, nil)
	el := &fakeElement{rect: common.Rect{X: 300, Y: 300, Width: 200, Height: 40}}
	m.Register("card", el, Options{})
	b, _ := m.Boundary("card")
	ball := e.CreateBall(BallOptions{X: 100, Y: 100, VY: 5000})
	e.handleBoundaryHit(ball, b.Shape)
	if el.writes != 0 {
		t.Fatalf("static boundary reacted")
	}
}

func TestCollisionTriggersReaction(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	m := NewBoundaryMapper(e, nil, nil)
	el := &fakeElement{rect: common.Rect{X: 300, Y: 300, Width: 200, Height: 40}}
	m.Register("card", el, Options{Type: BoundaryReactive, VelocityThreshold: float64Ptr(200)})
	e.CreateBall(BallOptions{X: 400, Y: 200, VY: 600, Radius: 20})
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 30 && el.writes == 0; i++ {
		e.Frame(1.0 / 60)
	}
	if !strings.Contains(el.style.Transform, "scale(") {
		t.Fatalf("expected reaction transform, got %+v", el.style)
	}
}
