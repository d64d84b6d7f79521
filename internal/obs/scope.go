package obs

import "sync"

// Scope is a disposal registry. Subscriptions and timers register their
// teardown against a scope so that everything owned by one view-model is
// released together.
type Scope struct {
	mu       sync.Mutex
	closed   bool
	disposes []func()
}

// NewScope constructs an open scope.
func NewScope() *Scope {
	return &Scope{}
}

// Add registers a teardown function. If the scope is already closed the
// function runs immediately.
func (s *Scope) Add(dispose func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		dispose()
		return
	}
	s.disposes = append(s.disposes, dispose)
	s.mu.Unlock()
}

// Close runs all registered teardowns in reverse registration order.
// Closing twice is a no-op.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	disposes := s.disposes
	s.disposes = nil
	s.mu.Unlock()

	for i := len(disposes) - 1; i >= 0; i-- {
		disposes[i]()
	}
}

// Closed reports whether the scope has been closed.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
