package snapshot

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds the snapshot set of each session in memory. An upload replaces
// the session's set in full; readers always see a complete set.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	set        *Set
	generation uint64
	updatedAt  time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Create registers a new session holding an empty set.
func (s *Store) Create() string {
	id := NewSessionID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{set: NewSet(nil), updatedAt: time.Now()}
	return id
}

// Replace installs set as the session's snapshot set and returns its generation.
// Generations increase by one on every replace of the same session.
func (s *Store) Replace(sessionID string, set *Set) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{}
		s.sessions[sessionID] = e
	}
	e.set = set
	e.generation++
	e.updatedAt = time.Now()
	return e.generation
}

// Get returns the session's snapshot set and its generation.
func (s *Store) Get(sessionID string) (*Set, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, 0, false
	}
	return e.set, e.generation, true
}

// Delete drops a session.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Evict drops sessions not updated since cutoff and returns how many were removed.
func (s *Store) Evict(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.sessions {
		if e.updatedAt.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
