package physics

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/ballpit/page"
	"github.com/milk9111/ballpit/sched"
)

const defaultReactionDuration = 200 * time.Millisecond

// Reaction is the visual response of a reactive boundary's element. Zero
// fields are not applied.
type Reaction struct {
	Scale      float64
	Brightness float64
	Saturate   float64
	HueRotate  float64 // degrees
	Blur       float64 // pixels
	DropShadow string  // drop-shadow arguments, e.g. "0 0 12px #fff"
	Duration   time.Duration
}

// TransformTokens returns the transform functions the reaction appends.
func (r Reaction) TransformTokens() []string {
	if r.Scale <= 0 || r.Scale == 1 {
		return nil
	}
	return []string{"scale(" + formatFloat(r.Scale) + ")"}
}

// FilterTokens returns the filter functions the reaction appends.
func (r Reaction) FilterTokens() []string {
	var out []string
	if r.Brightness > 0 && r.Brightness != 1 {
		out = append(out, "brightness("+formatFloat(r.Brightness)+")")
	}
	if r.Saturate > 0 && r.Saturate != 1 {
		out = append(out, "saturate("+formatFloat(r.Saturate)+")")
	}
	if r.HueRotate != 0 {
		out = append(out, "hue-rotate("+formatFloat(r.HueRotate)+"deg)")
	}
	if r.Blur > 0 {
		out = append(out, "blur("+formatFloat(r.Blur)+"px)")
	}
	if s := strings.TrimSpace(r.DropShadow); s != "" {
		out = append(out, "drop-shadow("+s+")")
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AppendStyleComponent adds one CSS function to a space separated list.
func AppendStyleComponent(value, token string) string {
	if token == "" {
		return value
	}
	if value == "" {
		return token
	}
	return value + " " + token
}

// StripStyleComponent removes the last occurrence of token that
// AppendStyleComponent added, leaving every other component untouched.
func StripStyleComponent(value, token string) string {
	if token == "" {
		return value
	}
	for i := strings.LastIndex(value, token); i >= 0; i = strings.LastIndex(value[:i], token) {
		end := i + len(token)
		if i > 0 && value[i-1] != ' ' {
			continue
		}
		if end < len(value) && value[end] != ' ' {
			continue
		}
		if i > 0 {
			return value[:i-1] + value[end:]
		}
		if end < len(value) {
			return value[end+1:]
		}
		return ""
	}
	return value
}

type activeReaction struct {
	gen        uint64
	transform  []string
	filter     []string
	transition string
}

// Reactor applies and later reverts reaction styles on elements. Reverts
// are scheduled callbacks; a newer reaction on the same element supersedes
// the pending revert of an older one.
type Reactor struct {
	sched  *sched.Scheduler
	lead   time.Duration
	debug  bool
	gen    uint64
	active map[Element]*activeReaction
}

func NewReactor(s *sched.Scheduler, lead time.Duration) *Reactor {
	return &Reactor{sched: s, lead: lead, active: make(map[Element]*activeReaction)}
}

// Active reports whether el has a reaction that has not fully settled.
func (r *Reactor) Active(el Element) bool {
	if r == nil || el == nil {
		return false
	}
	_, ok := r.active[el]
	return ok
}

// Trigger pushes the reaction onto el. It returns false when nothing was
// applied.
func (r *Reactor) Trigger(el Element, cfg Reaction) bool {
	if r == nil || r.sched == nil || el == nil {
		return false
	}
	if _, ok := el.BoundingClientRect(); !ok {
		return false
	}
	transform := cfg.TransformTokens()
	filter := cfg.FilterTokens()
	if len(transform) == 0 && len(filter) == 0 {
		return false
	}
	duration := cfg.Duration
	if duration <= 0 {
		duration = defaultReactionDuration
	}

	style := el.Style()
	prevTransition := style.Transition
	if prev, ok := r.active[el]; ok {
		style = stripTokens(style, prev)
		prevTransition = prev.transition
	}

	r.gen++
	act := &activeReaction{gen: r.gen, transform: transform, filter: filter, transition: prevTransition}
	r.active[el] = act

	ms := duration.Milliseconds()
	style.Transition = fmt.Sprintf("transform %dms ease-out, filter %dms ease-out", ms, ms)
	for _, t := range transform {
		style.Transform = AppendStyleComponent(style.Transform, t)
	}
	for _, f := range filter {
		style.Filter = AppendStyleComponent(style.Filter, f)
	}
	el.SetStyle(style)
	if r.debug {
		log.Printf("Reactor: apply %q %q", style.Transform, style.Filter)
	}

	gen := act.gen
	r.sched.After(duration+r.lead, func() {
		cur, ok := r.active[el]
		if !ok || cur.gen != gen {
			return
		}
		el.SetStyle(stripTokens(el.Style(), cur))
		cur.transform, cur.filter = nil, nil
		r.sched.After(duration, func() {
			cur, ok := r.active[el]
			if !ok || cur.gen != gen {
				return
			}
			s := el.Style()
			s.Transition = cur.transition
			el.SetStyle(s)
			delete(r.active, el)
		})
	})
	return true
}

func stripTokens(style page.Style, act *activeReaction) page.Style {
	for i := len(act.transform) - 1; i >= 0; i-- {
		style.Transform = StripStyleComponent(style.Transform, act.transform[i])
	}
	for i := len(act.filter) - 1; i >= 0; i-- {
		style.Filter = StripStyleComponent(style.Filter, act.filter[i])
	}
	return style
}
