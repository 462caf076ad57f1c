package events

import "sync"

// Signal is a typed, multi-subscriber notification channel. Delivery is
// synchronous on the publisher's call stack and best-effort: publishing
// with no subscribers registered is a no-op.
type Signal[T any] struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(T)
}

func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{handlers: make(map[int]func(T))}
}

// Subscribe registers fn and returns a function that removes it again.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.handlers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

// Publish delivers payload to every subscriber in registration order.
func (s *Signal[T]) Publish(payload T) {
	s.mu.Lock()
	fns := make([]func(T), 0, len(s.handlers))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.handlers[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(payload)
	}
}
