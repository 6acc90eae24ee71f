package session

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store holds live session states keyed by session ID. Implementations
// guard only the map; each State still has a single writer at a time.
type Store interface {
	Put(state *State)
	Get(id uuid.UUID) (*State, bool)
	Delete(id uuid.UUID)
	List() []*State
}

// MemoryStore is the in-process Store used by the server.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[uuid.UUID]*State
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[uuid.UUID]*State),
	}
}

// Put inserts or replaces the state under its ID.
func (s *MemoryStore) Put(state *State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[state.ID] = state
}

// Get returns the state for id, if present.
func (s *MemoryStore) Get(id uuid.UUID) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[id]
	return state, ok
}

// Delete removes the state for id. Missing IDs are a no-op.
func (s *MemoryStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, id)
}

// List returns all states, newest first.
func (s *MemoryStore) List() []*State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*State, 0, len(s.states))
	for _, state := range s.states {
		result = append(result, state)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}
