// File: internal/services/conversation/store.go
package conversation

import (
	"sync"

	"github.com/medassist-ng/ai-service/internal/domain"
)

// Store holds live sessions keyed by patient id. A Redis-backed
// implementation can replace the in-memory one without touching the manager.
type Store interface {
	Get(patientID string) (*domain.ConversationSession, bool)
	Put(session *domain.ConversationSession)
	Delete(patientID string) bool
	PatientIDs() []string
	Len() int
}

// MemoryStore is the default in-process session store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.ConversationSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*domain.ConversationSession)}
}

func (s *MemoryStore) Get(patientID string) (*domain.ConversationSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[patientID]
	return session, ok
}

func (s *MemoryStore) Put(session *domain.ConversationSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.PatientID] = session
}

func (s *MemoryStore) Delete(patientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[patientID]; !ok {
		return false
	}
	delete(s.sessions, patientID)
	return true
}

func (s *MemoryStore) PatientIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
