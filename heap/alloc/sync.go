package alloc

import "sync"

// Synchronized serializes every call to the wrapped Allocator with one mutex.
type Synchronized struct {
	mu sync.Mutex
	a  Allocator
}

var _ Allocator = (*Synchronized)(nil)

// NewSynchronized wraps a. The caller must stop using a directly.
func NewSynchronized(a Allocator) *Synchronized {
	return &Synchronized{a: a}
}

func (s *Synchronized) Allocate(size int, policy Policy) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Allocate(size, policy)
}

func (s *Synchronized) Deallocate(start, size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Deallocate(start, size)
}

func (s *Synchronized) Blocks() []Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Blocks()
}

// Do runs fn with the lock held, for callers that need several operations
// to appear atomic.
func (s *Synchronized) Do(fn func(a Allocator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.a)
}
