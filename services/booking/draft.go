package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"george/models"
)

const draftKeyPrefix = "chat:draft:"

// DraftStore persists the in-progress booking form per session. Drafts are
// exclusive to their session; expiry doubles as the session-timeout
// abandonment path.
type DraftStore interface {
	Get(ctx context.Context, sessionID string) (*models.BookingDraft, error)
	Set(ctx context.Context, sessionID string, draft *models.BookingDraft) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisDraftStore keeps drafts in Redis with the session TTL.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl}
}

func (s *RedisDraftStore) Get(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	data, err := s.client.Get(ctx, draftKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load booking draft: %w", err)
	}
	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("decode booking draft: %w", err)
	}
	return &draft, nil
}

func (s *RedisDraftStore) Set(ctx context.Context, sessionID string, draft *models.BookingDraft) error {
	b, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode booking draft: %w", err)
	}
	return s.client.Set(ctx, draftKeyPrefix+sessionID, b, s.ttl).Err()
}

func (s *RedisDraftStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, draftKeyPrefix+sessionID).Err()
}

// LocalDraftStore is the in-process DraftStore used by tests.
type LocalDraftStore struct {
	mu     sync.Mutex
	drafts map[string]models.BookingDraft
}

func NewLocalDraftStore() *LocalDraftStore {
	return &LocalDraftStore{drafts: make(map[string]models.BookingDraft)}
}

func (s *LocalDraftStore) Get(_ context.Context, sessionID string) (*models.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[sessionID]
	if !ok {
		return nil, nil
	}
	return &draft, nil
}

func (s *LocalDraftStore) Set(_ context.Context, sessionID string, draft *models.BookingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = *draft
	return nil
}

func (s *LocalDraftStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}
