package dispatch

import "sync"

// Selection holds the name of the active operator. It has one writer, the
// selection input, and one reader per gate.
type Selection struct {
	mu      sync.RWMutex
	current string
}

// NewSelection creates a selection initialized to name.
func NewSelection(name string) *Selection {
	return &Selection{current: name}
}

// Current returns the active operator name.
func (s *Selection) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Is reports whether name is the active operator.
func (s *Selection) Is(name string) bool {
	return s.Current() == name
}

// Set makes name the active operator and returns the previous one.
func (s *Selection) Set(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = name
	return prev
}
