package resilience

import (
	"maps"
	"sync"
	"time"
)

type Status string

const (
	StatusClosed   Status = "closed"
	StatusOpen     Status = "open"
	StatusHalfOpen Status = "half_open"
)

// State is the persisted condition of one breaker key.
type State struct {
	Status         Status
	Failures       int
	ProbeSuccesses int
	OpenedAt       time.Time
}

// BreakerStore is keyed shared state for the breakers. A single node uses
// the in-memory store; multi-instance deployments back it with the sqlite
// store so every node sees the same circuit condition. State resets on
// deploy for the in-memory case.
type BreakerStore interface {
	Get(key string) (State, error)
	Set(key string, s State) error
	All() (map[string]State, error)
}

type InMemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{states: make(map[string]State)}
}

func (s *InMemoryStore) Get(key string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[key]
	if !ok {
		return State{Status: StatusClosed}, nil
	}
	return st, nil
}

func (s *InMemoryStore) Set(key string, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[key] = st
	return nil
}

func (s *InMemoryStore) All() (map[string]State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.states), nil
}
