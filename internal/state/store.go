package state

import (
	"sync"

	"habitbot/internal/domain"
)

// Store keeps the in-progress dialogue of each user in memory
type Store struct {
	states   map[string]domain.ConversationState
	stateMux sync.RWMutex

	// Per-user locks serializing a user's get/set/clear sequence
	userLocks map[string]*sync.Mutex
	lockMux   sync.Mutex
}

// NewStore creates an empty state store
func NewStore() *Store {
	return &Store{
		states:    make(map[string]domain.ConversationState),
		userLocks: make(map[string]*sync.Mutex),
	}
}

// Get returns the user's dialogue state and whether one is active
func (s *Store) Get(userID string) (domain.ConversationState, bool) {
	s.stateMux.RLock()
	defer s.stateMux.RUnlock()

	state, exists := s.states[userID]
	return state, exists
}

// Set replaces the user's dialogue state
func (s *Store) Set(userID string, state domain.ConversationState) {
	s.stateMux.Lock()
	defer s.stateMux.Unlock()
	s.states[userID] = state
}

// Clear removes the user's dialogue state; no-op when absent
func (s *Store) Clear(userID string) {
	s.stateMux.Lock()
	defer s.stateMux.Unlock()
	delete(s.states, userID)
}

// Lock acquires the user's lock and returns the matching unlock
func (s *Store) Lock(userID string) func() {
	s.lockMux.Lock()
	lock, exists := s.userLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	s.lockMux.Unlock()

	lock.Lock()
	return lock.Unlock
}
