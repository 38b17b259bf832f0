package bot

import (
	"sync"

	"github.com/icognita1702/festalog/internal/domain"
)

// SessionStore keeps the per-sender pending conversation step. It is an
// in-memory map guarded by a mutex; sessions do not survive a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Conversation
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Conversation),
	}
}

// Get returns a copy of the sender's session, if any.
func (s *SessionStore) Get(phoneNumber string) (domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.sessions[phoneNumber]
	return conv, ok
}

// Set replaces the sender's session with the given step and collected data.
func (s *SessionStore) Set(phoneNumber, etapa string, dados map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dados == nil {
		dados = make(map[string]string)
	}
	s.sessions[phoneNumber] = domain.Conversation{Etapa: etapa, Dados: dados}
}

// Clear drops the sender's session, completing or abandoning the flow.
func (s *SessionStore) Clear(phoneNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, phoneNumber)
}
