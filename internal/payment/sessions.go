package payment

import "sync"

// AdapterFactory builds a new embedded adapter for a visitor session.
type AdapterFactory func(sessionID string) *EmbeddedAdapter

// Sessions tracks one embedded adapter per visitor session, so repeated
// requests from the same checkout surface drive the same state machine.
type Sessions struct {
	mu       sync.Mutex
	adapters map[string]*EmbeddedAdapter
	factory  AdapterFactory
}

// NewSessions creates an empty session registry.
func NewSessions(factory AdapterFactory) *Sessions {
	return &Sessions{
		adapters: make(map[string]*EmbeddedAdapter),
		factory:  factory,
	}
}

// Get returns the adapter for a session, creating it on first use.
func (s *Sessions) Get(sessionID string) *EmbeddedAdapter {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.adapters[sessionID]
	if !ok {
		a = s.factory(sessionID)
		s.adapters[sessionID] = a
	}

	return a
}

// Drop forgets a session's adapter. Called after a completed checkout so
// a new visit starts from a fresh state machine.
func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.adapters, sessionID)
}
