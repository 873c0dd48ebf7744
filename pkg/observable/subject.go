// Package observable provides a minimal behaviour subject: subscribers get the
// latest value on subscribe and then every published value, in publish order.
package observable

import "sync"

// delivery is one queued notification. ids are the subscribers that were
// registered when it was queued.
type delivery[T any] struct {
	v   T
	ids []int
}

// Subject holds a current value and a list of subscribers.
//
// Callbacks run on the goroutine that is draining the queue, never while a
// lock is held, so a callback may Publish or Subscribe on the same Subject.
// Values published during a delivery are queued and delivered after it, in
// order. Publish therefore may return before its value reached every
// subscriber when it is called from a callback or while another goroutine
// is delivering.
type Subject[T any] struct {
	mu       sync.Mutex
	value    T
	nextID   int
	subs     map[int]func(T)
	queue    []delivery[T]
	draining bool
}

// NewSubject returns a Subject holding initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial, subs: make(map[int]func(T))}
}

// Value returns the latest published value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Publish stores v and notifies every subscriber.
func (s *Subject[T]) Publish(v T) {
	s.Enqueue(v)
	s.Flush()
}

// Enqueue stores v and queues its delivery without running any callback.
// Callers that must order publishes under their own lock enqueue while
// holding it and Flush after releasing it.
func (s *Subject[T]) Enqueue(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	s.queue = append(s.queue, delivery[T]{v: v, ids: s.ids()})
}

// Flush delivers queued values unless another call is already doing so.
func (s *Subject[T]) Flush() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	drained := false
	defer func() {
		// A panicking callback must not leave the subject stuck.
		if !drained {
			s.mu.Lock()
			s.draining = false
			s.mu.Unlock()
		}
	}()

	for {
		v, fns, ok := s.next()
		if !ok {
			drained = true
			return
		}
		for _, fn := range fns {
			fn(v)
		}
	}
}

// next pops the oldest delivery. When the queue is empty it clears draining
// under the same lock, so a concurrent Enqueue is either popped here or
// flushed by its own caller.
func (s *Subject[T]) next() (T, []func(T), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		s.queue = nil
		s.draining = false
		var zero T
		return zero, nil, false
	}
	d := s.queue[0]
	s.queue = s.queue[1:]

	fns := make([]func(T), 0, len(d.ids))
	for _, id := range d.ids {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	return d.v, fns, true
}

// Subscribe registers fn, calls it with the current value and returns a
// function that removes the subscription. When called during a delivery, fn
// first runs once that delivery finishes.
func (s *Subject[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.queue = append(s.queue, delivery[T]{v: s.value, ids: []int{id}})
	s.mu.Unlock()

	s.Flush()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// ids returns subscriber ids in registration order. Caller holds s.mu.
func (s *Subject[T]) ids() []int {
	out := make([]int, 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if _, ok := s.subs[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
