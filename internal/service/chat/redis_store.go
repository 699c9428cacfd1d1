package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jmoreau/recovery-squad/backend/internal/model/chat"
)

// RedisStore persists sessions and transcripts in redis so that the
// conversation memory outlives the process. Entries expire after the
// configured TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to redis via URL (redis://host:port/db) and
// verifies the connection before returning.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func sessionKey(id string) string    { return "session:" + id }
func transcriptKey(id string) string { return "transcript:" + id }

// SaveSession records a new session.
func (s *RedisStore) SaveSession(ctx context.Context, session chat.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Session retrieves a session by identifier.
func (s *RedisStore) Session(ctx context.Context, sessionID string) (chat.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return chat.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return chat.Session{}, fmt.Errorf("load session: %w", err)
	}

	var session chat.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return chat.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

// AppendMessage adds a message to the session transcript and refreshes
// its TTL alongside the session's.
func (s *RedisStore) AppendMessage(ctx context.Context, message chat.Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	key := transcriptKey(message.SessionID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// Transcript returns every stored message for the session in order.
func (s *RedisStore) Transcript(ctx context.Context, sessionID string) ([]chat.Message, error) {
	entries, err := s.rdb.LRange(ctx, transcriptKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	messages := make([]chat.Message, 0, len(entries))
	for _, entry := range entries {
		var message chat.Message
		if err := json.Unmarshal([]byte(entry), &message); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		messages = append(messages, message)
	}
	return messages, nil
}
