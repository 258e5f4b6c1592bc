package interact

import (
	"time"

	"github.com/milk9111/ballpit/physics"
	"github.com/milk9111/ballpit/sched"
	"github.com/milk9111/ballpit/store"
)

const (
	DefaultHoverRadius   = 20.0
	DefaultHoverInterval = 100 * time.Millisecond
)

// Balls is what the hover detector needs from the world.
type Balls interface {
	ClosestBall(x, y float64) (*physics.Ball, float64, bool)
	VisualState(*physics.Ball) physics.VisualState
	SetVisualState(*physics.Ball, physics.VisualState)
	ClearVisualState(*physics.Ball)
}

type HoverOptions struct {
	Radius   float64
	Interval time.Duration
}

// HoverDetector polls pointer proximity to the closest ball and flips the
// interaction mode between browsing and ball interaction.
type HoverDetector struct {
	balls  Balls
	canvas Canvas
	mode   *store.Interaction
	cursor Cursor
	opts   HoverOptions

	sched     *sched.Scheduler
	timer     sched.TimerID
	listening bool

	px, py     float64
	hasPointer bool
	hovered    *physics.Ball
}

func NewHoverDetector(balls Balls, canvas Canvas, mode *store.Interaction, cursor Cursor, opts HoverOptions) *HoverDetector {
	if opts.Radius <= 0 {
		opts.Radius = DefaultHoverRadius
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultHoverInterval
	}
	if cursor == nil {
		cursor = nopCursor{}
	}
	return &HoverDetector{balls: balls, canvas: canvas, mode: mode, cursor: cursor, opts: opts}
}

// HandleMouseMove records the pointer in viewport coordinates. It is fed by
// a document-wide listener and ignored while stopped.
func (h *HoverDetector) HandleMouseMove(x, y float64) {
	if h == nil || !h.listening {
		return
	}
	h.px, h.py = x, y
	h.hasPointer = true
}

// Start begins polling on s. Repeated calls are no-ops.
func (h *HoverDetector) Start(s *sched.Scheduler) {
	if h == nil || h.listening || s == nil {
		return
	}
	h.sched = s
	h.listening = true
	h.timer = s.Every(h.opts.Interval, h.Poll)
}

// Stop cancels polling, forgets the pointer and drops any hover, handing
// input back to the page. Repeated calls are no-ops.
func (h *HoverDetector) Stop() {
	if h == nil || !h.listening {
		return
	}
	h.sched.Cancel(h.timer)
	h.listening = false
	h.hasPointer = false
	if h.hovered != nil {
		h.unmark(h.hovered)
		h.hovered = nil
		h.mode.EnableNormalBrowsing()
		h.cursor.SetCursor(CursorDefault)
	}
}

func (h *HoverDetector) Running() bool {
	return h != nil && h.listening
}

// SetOptions applies new radius and interval settings. A running detector
// is re-armed at the new interval.
func (h *HoverDetector) SetOptions(opts HoverOptions) {
	if h == nil {
		return
	}
	if opts.Radius <= 0 {
		opts.Radius = DefaultHoverRadius
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultHoverInterval
	}
	rearm := h.listening && opts.Interval != h.opts.Interval
	h.opts = opts
	if rearm {
		h.sched.Cancel(h.timer)
		h.timer = h.sched.Every(h.opts.Interval, h.Poll)
	}
}

// Hovered returns the ball under the pointer, if any.
func (h *HoverDetector) Hovered() (*physics.Ball, bool) {
	if h == nil || h.hovered == nil {
		return nil, false
	}
	return h.hovered, true
}

// Poll applies at most one hover transition.
func (h *HoverDetector) Poll() {
	if h == nil || h.balls == nil || !h.hasPointer {
		return
	}
	x, y, ok := toCanvas(h.canvas, h.px, h.py)
	if !ok {
		return
	}
	ball, dist, found := h.balls.ClosestBall(x, y)
	within := found && dist <= h.opts.Radius

	switch {
	case within && h.hovered == nil:
		h.hovered = ball
		h.mode.EnableBallInteraction()
		h.mark(ball)
		h.cursor.SetCursor(CursorPointer)
	case !within && h.hovered != nil:
		h.unmark(h.hovered)
		h.hovered = nil
		h.mode.EnableNormalBrowsing()
		h.cursor.SetCursor(CursorDefault)
	case within && ball != h.hovered:
		h.unmark(h.hovered)
		h.mark(ball)
		h.hovered = ball
	case within && h.balls.VisualState(ball) == physics.VisualNormal:
		// A drag ended under the pointer and cleared the glow.
		h.mark(ball)
		h.cursor.SetCursor(CursorPointer)
	}
}

// mark and unmark leave a dragged ball alone.
func (h *HoverDetector) mark(b *physics.Ball) {
	if h.balls.VisualState(b) == physics.VisualDragged {
		return
	}
	h.balls.SetVisualState(b, physics.VisualHovered)
}

func (h *HoverDetector) unmark(b *physics.Ball) {
	if h.balls.VisualState(b) != physics.VisualHovered {
		return
	}
	h.balls.ClearVisualState(b)
}
