package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each user's draft slot as a JSON value at draft:{userId}.
// Entries expire at twice the draft TTL as a safety net; logical expiry is
// checked by the lifecycle on every access.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func draftKey(userID string) string {
	return fmt.Sprintf("draft:%s", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*Draft, error) {
	data, err := s.client.Get(ctx, draftKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft slot: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft slot: %w", err)
	}
	return &d, nil
}

func (s *RedisStore) Set(ctx context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(d.UserID), data, 2*s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write draft slot: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear draft slot: %w", err)
	}
	return nil
}

// MemoryStore is the redis-less Store for tests and single-process runs.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]*Draft)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drafts[userID], nil
}

func (s *MemoryStore) Set(_ context.Context, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.UserID] = d
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}
