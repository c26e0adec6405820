package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"george/models"
)

const memoryKeyPrefix = "chat:mem:"

// MemoryStore holds the live conversation window for each session. The
// dispatcher is the single writer; the classifier and chat tool only read.
type MemoryStore interface {
	Append(ctx context.Context, sessionID string, turns ...models.ConversationTurn) error
	Recent(ctx context.Context, sessionID string, n int) ([]models.ConversationTurn, error)
	Clear(ctx context.Context, sessionID string) error
}

// RedisMemoryStore keeps the window in a Redis list per session, trimmed to
// the configured size and expiring with the session.
type RedisMemoryStore struct {
	client *redis.Client
	ttl    time.Duration
	window int
}

func NewRedisMemoryStore(client *redis.Client, ttl time.Duration, window int) *RedisMemoryStore {
	return &RedisMemoryStore{client: client, ttl: ttl, window: window}
}

func (s *RedisMemoryStore) Append(ctx context.Context, sessionID string, turns ...models.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	key := memoryKeyPrefix + sessionID
	vals := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshal turn: %w", err)
		}
		vals = append(vals, b)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, vals...)
	// Oldest turns fall off once the window cap is reached.
	pipe.LTrim(ctx, key, int64(-s.window), -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append conversation turns: %w", err)
	}
	return nil
}

func (s *RedisMemoryStore) Recent(ctx context.Context, sessionID string, n int) ([]models.ConversationTurn, error) {
	key := memoryKeyPrefix + sessionID
	raw, err := s.client.LRange(ctx, key, int64(-n), -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation window: %w", err)
	}

	turns := make([]models.ConversationTurn, 0, len(raw))
	for _, item := range raw {
		var t models.ConversationTurn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("decode conversation turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *RedisMemoryStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, memoryKeyPrefix+sessionID).Err()
}

// LocalMemoryStore is the in-process MemoryStore used by tests and by local
// runs without Redis.
type LocalMemoryStore struct {
	mu     sync.Mutex
	turns  map[string][]models.ConversationTurn
	window int
}

func NewLocalMemoryStore(window int) *LocalMemoryStore {
	return &LocalMemoryStore{turns: make(map[string][]models.ConversationTurn), window: window}
}

func (s *LocalMemoryStore) Append(_ context.Context, sessionID string, turns ...models.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := append(s.turns[sessionID], turns...)
	if len(log) > s.window {
		log = log[len(log)-s.window:]
	}
	s.turns[sessionID] = log
	return nil
}

func (s *LocalMemoryStore) Recent(_ context.Context, sessionID string, n int) ([]models.ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.turns[sessionID]
	if len(log) > n {
		log = log[len(log)-n:]
	}
	out := make([]models.ConversationTurn, len(log))
	copy(out, log)
	return out, nil
}

func (s *LocalMemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, sessionID)
	return nil
}
