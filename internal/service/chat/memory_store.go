package chat

import (
	"context"
	"sync"

	"github.com/jmoreau/recovery-squad/backend/internal/model/chat"
)

// MemoryStore keeps sessions and transcripts in process memory; the
// default when no external memory service is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Message
}

// NewMemoryStore bootstraps the in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]chat.Session),
		messages: make(map[string][]chat.Message),
	}
}

// SaveSession records a new session.
func (s *MemoryStore) SaveSession(_ context.Context, session chat.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = make([]chat.Message, 0, 16)
	return nil
}

// Session retrieves a session by identifier.
func (s *MemoryStore) Session(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// AppendMessage adds a message to the session transcript.
func (s *MemoryStore) AppendMessage(_ context.Context, message chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[message.SessionID]; !ok {
		return ErrSessionNotFound
	}
	s.messages[message.SessionID] = append(s.messages[message.SessionID], message)
	return nil
}

// Transcript returns a copy of the stored messages.
func (s *MemoryStore) Transcript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}
