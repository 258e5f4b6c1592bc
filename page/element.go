package page

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/milk9111/ballpit/common"
)

var idUnsafe = regexp.MustCompile(`[^a-z0-9-]+`)

// GenerateID builds an element id from its tag, the first three words of
// its text and its sibling index.
func GenerateID(tag, text string, index int) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) > 3 {
		words = words[:3]
	}
	id := strings.ToLower(tag)
	if len(words) > 0 {
		id += "-" + strings.Join(words, "-")
	}
	id = idUnsafe.ReplaceAllString(fmt.Sprintf("%s-%d", id, index), "")
	return strings.Trim(id, "-")
}

// Style is the mutable presentation state of an element. Values use CSS
// syntax, e.g. Transform "translateY(2px) scale(1.05)".
type Style struct {
	Transform  string
	Filter     string
	Transition string
}

// Element is a laid-out box on the page. The page owns its lifetime;
// everything else holds it as a back-reference and must tolerate it being
// detached at any time.
type Element struct {
	page     *Page
	id       string
	tag      string
	text     string
	index    int
	rect     common.Rect
	style    Style
	attached bool
	card     *Card
}

func (e *Element) ID() string {
	if e == nil {
		return ""
	}
	return e.id
}

func (e *Element) Tag() string {
	if e == nil {
		return ""
	}
	return e.tag
}

func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	return e.text
}

// Index is the element's position among its siblings.
func (e *Element) Index() int {
	if e == nil {
		return -1
	}
	return e.index
}

// Card returns the card metadata, or nil for structural elements.
func (e *Element) Card() *Card {
	if e == nil {
		return nil
	}
	return e.card
}

func (e *Element) Attached() bool {
	return e != nil && e.attached
}

// DocumentRect is the element box in page coordinates, ignoring scroll.
func (e *Element) DocumentRect() common.Rect {
	if e == nil {
		return common.Rect{}
	}
	return e.rect
}

// BoundingClientRect returns the box in viewport coordinates. It reports
// false once the element has been detached.
func (e *Element) BoundingClientRect() (common.Rect, bool) {
	if e == nil || !e.attached || e.page == nil {
		return common.Rect{}, false
	}
	return e.rect.RelativeTo(e.page.scrollX, e.page.scrollY), true
}

func (e *Element) Style() Style {
	if e == nil {
		return Style{}
	}
	return e.style
}

// SetStyle replaces the element style. Writes to a detached element are
// kept but have no visible effect.
func (e *Element) SetStyle(s Style) {
	if e == nil {
		return
	}
	e.style = s
}
