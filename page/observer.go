package page

// ResizeObserver delivers a callback whenever the observed element changes
// size. Notifications are queued and delivered by Page.Flush.
type ResizeObserver struct {
	page   *Page
	el     *Element
	fn     func()
	active bool
}

// Disconnect stops notifications. It is safe to call more than once.
func (o *ResizeObserver) Disconnect() {
	if o == nil || !o.active {
		return
	}
	o.active = false
	if o.page == nil {
		return
	}
	if o.el == nil {
		for i, other := range o.page.layoutObservers {
			if other == o {
				o.page.layoutObservers = append(o.page.layoutObservers[:i], o.page.layoutObservers[i+1:]...)
				break
			}
		}
		return
	}
	list := o.page.observers[o.el]
	for i, other := range list {
		if other == o {
			o.page.observers[o.el] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(o.page.observers[o.el]) == 0 {
		delete(o.page.observers, o.el)
	}
}

// ObserveResize registers fn for size changes of el. Like the browser API
// an initial notification is queued right away.
func (p *Page) ObserveResize(el *Element, fn func()) *ResizeObserver {
	if p == nil || el == nil || fn == nil {
		return nil
	}
	o := &ResizeObserver{page: p, el: el, fn: fn, active: true}
	p.observers[el] = append(p.observers[el], o)
	p.queueResize(el)
	return o
}

// ObserveLayout registers fn for element moves that keep the size, which
// resize observers never see. Flush delivers it at most once per call.
func (p *Page) ObserveLayout(fn func()) *ResizeObserver {
	if p == nil || fn == nil {
		return nil
	}
	o := &ResizeObserver{page: p, fn: fn, active: true}
	p.layoutObservers = append(p.layoutObservers, o)
	return o
}

func (p *Page) queueResize(el *Element) {
	if _, ok := p.observers[el]; !ok {
		return
	}
	for _, queued := range p.pending {
		if queued == el {
			return
		}
	}
	p.pending = append(p.pending, el)
}

// Flush delivers queued resize notifications, at most one per element,
// then one layout notification if anything moved. Notifications raised by
// the callbacks are delivered on the next Flush.
func (p *Page) Flush() int {
	if p == nil {
		return 0
	}
	batch := p.pending
	moved := p.moved
	p.pending = nil
	p.moved = false
	delivered := 0
	for _, el := range batch {
		for _, o := range append([]*ResizeObserver(nil), p.observers[el]...) {
			if !o.active {
				continue
			}
			o.fn()
			delivered++
		}
	}
	if moved {
		for _, o := range append([]*ResizeObserver(nil), p.layoutObservers...) {
			if o.active {
				o.fn()
				delivered++
			}
		}
	}
	return delivered
}

// PendingResizes returns the number of elements with queued notifications.
func (p *Page) PendingResizes() int {
	if p == nil {
		return 0
	}
	return len(p.pending)
}
