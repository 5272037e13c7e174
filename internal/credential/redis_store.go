package credential

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps resolved credential ids in a per-user Redis hash,
// keyed cred:{userId} with one field per credential type.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func credKey(userID string) string {
	return fmt.Sprintf("cred:%s", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID, credType string) (string, error) {
	id, err := s.client.HGet(ctx, credKey(userID), credType).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential cache: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Set(ctx context.Context, userID, credType, id string) error {
	if err := s.client.HSet(ctx, credKey(userID), credType, id).Err(); err != nil {
		return fmt.Errorf("failed to write credential cache: %w", err)
	}
	return nil
}
