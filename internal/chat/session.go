// Package chat implements document-grounded conversations: session state,
// the layered answering strategies, and the engine that runs them.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound reports a session id with no stored state, either
// never created or already expired.
var ErrSessionNotFound = errors.New("chat session not found")

// Turn is a single message in a session, attributed to "user" or
// "assistant".
type Turn struct {
	Role      string    `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Session holds everything needed to answer follow-up questions: the
// source document text plus the full turn history.
type Session struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"documentId"`
	DocumentName string    `json:"documentName"`
	DocumentText string    `json:"-"`
	Turns        []Turn    `json:"messages"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionStore persists sessions between messages.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Used in tests and when
// Redis is not configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	// Copy so callers can append turns without racing other readers.
	cp := *session
	cp.Turns = append([]Turn(nil), session.Turns...)
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	cp.Turns = append([]Turn(nil), session.Turns...)
	s.sessions[session.ID] = &cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

const sessionKeyPrefix = "chatsession:"

// RedisStore persists sessions as JSON with a sliding TTL, so idle
// conversations expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

type storedSession struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"documentId"`
	DocumentName string    `json:"documentName"`
	DocumentText string    `json:"documentText"`
	Turns        []Turn    `json:"turns"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat session: %w", err)
	}
	var stored storedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode chat session: %w", err)
	}
	return &Session{
		ID:           stored.ID,
		DocumentID:   stored.DocumentID,
		DocumentName: stored.DocumentName,
		DocumentText: stored.DocumentText,
		Turns:        stored.Turns,
		CreatedAt:    stored.CreatedAt,
	}, nil
}

func (s *RedisStore) Put(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(storedSession{
		ID:           session.ID,
		DocumentID:   session.DocumentID,
		DocumentName: session.DocumentName,
		DocumentText: session.DocumentText,
		Turns:        session.Turns,
		CreatedAt:    session.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode chat session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+session.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store chat session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	return nil
}
