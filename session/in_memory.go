package session

import (
	"sync"
	"time"

	"github.com/hupe1980/hrflow/agent"
)

// InMemoryStore is a volatile Store implementation keeping sessions in a
// process local map. It is safe for concurrent access and best suited for
// tests and the interactive terminal client. Each returned session is cloned
// to prevent external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*Session)}
}

// Get returns an existing session (clone) or creates a new one lazily.
func (s *InMemoryStore) Get(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(sessionID).Clone(), nil
}

// AppendMessages adds messages to an existing or newly created session.
func (s *InMemoryStore) AppendMessages(sessionID string, messages ...agent.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(sessionID)
	sess.Messages = append(sess.Messages, messages...)
	sess.Updated = time.Now()
	return nil
}

// SetLastState records the final state of a completed run.
func (s *InMemoryStore) SetLastState(sessionID string, state agent.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(sessionID)
	sess.LastState = state
	sess.Updated = time.Now()
	return nil
}

// getOrCreateLocked allocates and stores a new session if absent; caller must
// already hold the write lock.
func (s *InMemoryStore) getOrCreateLocked(sessionID string) *Session {
	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	now := time.Now()
	sess := &Session{ID: sessionID, Created: now, Updated: now}
	s.sessions[sessionID] = sess
	return sess
}
