package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jmoreau/recovery-squad/backend/internal/model/chat"
)

var (
	ErrPersonaRequired = errors.New("persona id is required")
	ErrSessionNotFound = errors.New("session not found")
)

// Store abstracts session and transcript persistence so that the
// transcript memory can live in-process or in an external service.
type Store interface {
	SaveSession(ctx context.Context, session chat.Session) error
	Session(ctx context.Context, sessionID string) (chat.Session, error)
	AppendMessage(ctx context.Context, message chat.Message) error
	Transcript(ctx context.Context, sessionID string) ([]chat.Message, error)
}

// Service encapsulates conversation state management.
type Service struct {
	store Store
}

// NewService wires the chat service over the supplied store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateSession provisions an anonymous session bound to a persona.
func (s *Service) CreateSession(ctx context.Context, personaID string) (chat.Session, error) {
	if personaID == "" {
		return chat.Session{}, ErrPersonaRequired
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		PersonaID: personaID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return chat.Session{}, err
	}
	return session, nil
}

// SaveMessage appends a message to the session history.
func (s *Service) SaveMessage(ctx context.Context, message chat.Message) error {
	if message.SessionID == "" {
		return ErrSessionNotFound
	}

	if _, err := s.store.Session(ctx, message.SessionID); err != nil {
		return err
	}

	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	return s.store.AppendMessage(ctx, message)
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(ctx context.Context, sessionID string) (chat.Session, error) {
	return s.store.Session(ctx, sessionID)
}

// LoadTranscript returns stored messages for the provided session.
func (s *Service) LoadTranscript(ctx context.Context, sessionID string) ([]chat.Message, error) {
	if _, err := s.store.Session(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.store.Transcript(ctx, sessionID)
}
