package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionContextPrefix = "chat:ctx:"

// SessionContext carries the small cross-turn flags a session needs outside
// of the booking draft itself.
type SessionContext struct {
	// InBookingFlow is set while the session holds a draft in a non-terminal
	// state. While set, every turn goes to the booking tool without
	// consulting the classifier, so a short confirmation like "yes" cannot
	// be misrouted mid-flow.
	InBookingFlow bool `json:"inBookingFlow"`

	// AwaitingActivityConsent is set after a confirmed booking; while set,
	// the next turn is handled by the follow-up tool instead of the
	// classifier.
	AwaitingActivityConsent bool   `json:"awaitingActivityConsent"`
	LastBookingNumber       string `json:"lastBookingNumber,omitempty"`
	LastGuestName           string `json:"lastGuestName,omitempty"`
}

// ContextStore persists SessionContext per session.
type ContextStore interface {
	Get(ctx context.Context, sessionID string) (*SessionContext, error)
	Set(ctx context.Context, sessionID string, sctx *SessionContext) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisContextStore keeps session context in Redis with the session TTL.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, sessionID string) (*SessionContext, error) {
	data, err := s.client.Get(ctx, sessionContextPrefix+sessionID).Result()
	if err == redis.Nil {
		return &SessionContext{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session context: %w", err)
	}
	var sctx SessionContext
	if err := json.Unmarshal([]byte(data), &sctx); err != nil {
		return nil, fmt.Errorf("decode session context: %w", err)
	}
	return &sctx, nil
}

func (s *RedisContextStore) Set(ctx context.Context, sessionID string, sctx *SessionContext) error {
	b, err := json.Marshal(sctx)
	if err != nil {
		return fmt.Errorf("encode session context: %w", err)
	}
	return s.client.Set(ctx, sessionContextPrefix+sessionID, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionContextPrefix+sessionID).Err()
}

// LocalContextStore is the in-process ContextStore used by tests.
type LocalContextStore struct {
	mu       sync.Mutex
	contexts map[string]SessionContext
}

func NewLocalContextStore() *LocalContextStore {
	return &LocalContextStore{contexts: make(map[string]SessionContext)}
}

func (s *LocalContextStore) Get(_ context.Context, sessionID string) (*SessionContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sctx := s.contexts[sessionID]
	return &sctx, nil
}

func (s *LocalContextStore) Set(_ context.Context, sessionID string, sctx *SessionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[sessionID] = *sctx
	return nil
}

func (s *LocalContextStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, sessionID)
	return nil
}
