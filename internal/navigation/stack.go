// Package navigation models the two-destination back stack of the access screens.
package navigation

import (
	"fmt"
	"sync"
)

// Destination names a screen.
type Destination string

const (
	Login   Destination = "login"
	Success Destination = "success"
)

// PopUpTo removes entries above Route before pushing; Inclusive removes Route itself too.
type PopUpTo struct {
	Route     Destination
	Inclusive bool
}

// Stack is a back stack. It starts with a single start destination.
type Stack struct {
	mu      sync.Mutex
	entries []Destination
	exited  bool
}

// NewStack creates a stack positioned on start.
func NewStack(start Destination) *Stack {
	return &Stack{entries: []Destination{start}}
}

// allowed lists the only transitions that exist.
var allowed = map[Destination][]Destination{
	Login: {Success},
}

// Navigate pushes dest after applying popUpTo (if non-nil).
func (s *Stack) Navigate(dest Destination, popUpTo *PopUpTo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exited {
		return fmt.Errorf("navigation: stack has exited")
	}
	from := s.entries[len(s.entries)-1]
	if !canNavigate(from, dest) {
		return fmt.Errorf("navigation: no transition %s -> %s", from, dest)
	}

	if popUpTo != nil {
		for i := len(s.entries) - 1; i >= 0; i-- {
			if s.entries[i] != popUpTo.Route {
				continue
			}
			if popUpTo.Inclusive {
				s.entries = s.entries[:i]
			} else {
				s.entries = s.entries[:i+1]
			}
			break
		}
	}
	s.entries = append(s.entries, dest)
	return nil
}

// Back pops the current destination. When nothing is left the stack has exited and exited is true.
func (s *Stack) Back() (current Destination, exited bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exited {
		return "", true
	}
	s.entries = s.entries[:len(s.entries)-1]
	if len(s.entries) == 0 {
		s.exited = true
		return "", true
	}
	return s.entries[len(s.entries)-1], false
}

// Current returns the top destination, or "" once exited.
func (s *Stack) Current() Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exited {
		return ""
	}
	return s.entries[len(s.entries)-1]
}

// Exited reports whether back navigation has left the last destination.
func (s *Stack) Exited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exited
}

// History returns a copy of the stack, bottom first.
func (s *Stack) History() []Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Destination, len(s.entries))
	copy(out, s.entries)
	return out
}

func canNavigate(from, to Destination) bool {
	for _, d := range allowed[from] {
		if d == to {
			return true
		}
	}
	return false
}
