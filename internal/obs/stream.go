package obs

import "sync"

// Stream fans values out to subscribers over buffered channels.
// Publishing never blocks: a subscriber whose buffer is full misses the
// value (slow-consumer drop).
type Stream[T any] struct {
	mu     sync.Mutex
	closed bool
	next   int
	subs   map[int]chan T
	// onDrop, if set, is called each time a value is dropped for a
	// slow subscriber.
	onDrop func()
}

// NewStream constructs an empty stream.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[int]chan T)}
}

// OnDrop installs a callback invoked whenever a publish drops a value.
func (s *Stream[T]) OnDrop(fn func()) {
	s.mu.Lock()
	s.onDrop = fn
	s.mu.Unlock()
}

// Subscribe registers a new subscriber with the given buffer size and ties
// its lifetime to scope. The returned channel is closed when either the
// scope closes or the stream closes.
func (s *Stream[T]) Subscribe(scope *Scope, buf int) <-chan T {
	ch, _ := s.subscribe(scope, buf)
	return ch
}

func (s *Stream[T]) subscribe(scope *Scope, buf int) (chan T, bool) {
	if buf < 1 {
		buf = 1
	}
	ch := make(chan T, buf)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, false
	}
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	scope.Add(func() { s.unsubscribe(id) })
	return ch, true
}

func (s *Stream[T]) unsubscribe(id int) {
	s.mu.Lock()
	ch, ok := s.subs[id]
	if ok {
		delete(s.subs, id)
	}
	s.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Publish delivers v to every subscriber that has buffer room.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			// Drop if slow consumer.
			if s.onDrop != nil {
				s.onDrop()
			}
		}
	}
}

// Close closes all subscriber channels. Further publishes are ignored.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = make(map[int]chan T)
	s.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}

// Behavior is a Stream that remembers its latest value and replays it to
// new subscribers.
type Behavior[T any] struct {
	stream  *Stream[T]
	mu      sync.Mutex
	current T
	has     bool
}

// NewBehavior constructs a behavior with no initial value.
func NewBehavior[T any]() *Behavior[T] {
	return &Behavior[T]{stream: NewStream[T]()}
}

// NewBehaviorOf constructs a behavior seeded with an initial value.
func NewBehaviorOf[T any](initial T) *Behavior[T] {
	b := NewBehavior[T]()
	b.current = initial
	b.has = true
	return b
}

// Subscribe registers a subscriber; the current value, if any, is placed in
// the channel before any future publishes.
func (b *Behavior[T]) Subscribe(scope *Scope, buf int) <-chan T {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, open := b.stream.subscribe(scope, buf)
	if open && b.has {
		// A fresh subscriber buffer always has room for the replay.
		ch <- b.current
	}
	return ch
}

// Get returns the current value (zero value if none was published yet).
func (b *Behavior[T]) Get() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Publish stores v as the current value and fans it out.
func (b *Behavior[T]) Publish(v T) {
	b.mu.Lock()
	b.current = v
	b.has = true
	b.mu.Unlock()
	b.stream.Publish(v)
}

// Close closes the underlying stream.
func (b *Behavior[T]) Close() {
	b.stream.Close()
}
