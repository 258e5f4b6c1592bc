// Package store holds small observable state containers. Subscribers are
// called synchronously on the goroutine that changed the value.
package store

type Readable[T any] interface {
	Get() T
	Subscribe(fn func(T)) (unsubscribe func())
}

type subscribers[T any] struct {
	next int
	fns  map[int]func(T)
	ids  []int
}

func (s *subscribers[T]) add(fn func(T)) func() {
	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	s.next++
	id := s.next
	s.fns[id] = fn
	s.ids = append(s.ids, id)
	return func() {
		if _, ok := s.fns[id]; !ok {
			return
		}
		delete(s.fns, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
	}
}

func (s *subscribers[T]) publish(v T) {
	ids := append([]int(nil), s.ids...)
	for _, id := range ids {
		if fn, ok := s.fns[id]; ok {
			fn(v)
		}
	}
}

// Writable publishes every Set, changed or not.
type Writable[T any] struct {
	value T
	subs  subscribers[T]
}

func NewWritable[T any](initial T) *Writable[T] {
	return &Writable[T]{value: initial}
}

func (w *Writable[T]) Get() T {
	return w.value
}

func (w *Writable[T]) Set(v T) {
	w.value = v
	w.subs.publish(v)
}

func (w *Writable[T]) Update(fn func(T) T) {
	w.Set(fn(w.value))
}

// Subscribe calls fn with the current value, then on every change.
func (w *Writable[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	unsub := w.subs.add(fn)
	fn(w.value)
	return unsub
}

// Derived recomputes from a source and publishes only when its value changes.
type Derived[T comparable] struct {
	value T
	subs  subscribers[T]
	stop  func()
}

func Derive[S any, T comparable](src Readable[S], fn func(S) T) *Derived[T] {
	d := &Derived[T]{}
	first := true
	d.stop = src.Subscribe(func(v S) {
		next := fn(v)
		if !first && next == d.value {
			return
		}
		first = false
		d.value = next
		d.subs.publish(next)
	})
	return d
}

func (d *Derived[T]) Get() T {
	return d.value
}

func (d *Derived[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	unsub := d.subs.add(fn)
	fn(d.value)
	return unsub
}

// Close detaches the derived store from its source.
func (d *Derived[T]) Close() {
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
}
