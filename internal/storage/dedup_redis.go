package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupKeyPrefix = "meli:dispatched:"

var _ DedupStore = (*RedisDedupStore)(nil)

type RedisDedupStore struct {
	client *redis.Client
}

func NewRedisDedupStore(client *redis.Client) *RedisDedupStore {
	return &RedisDedupStore{client: client}
}

func (s *RedisDedupStore) Seen(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, dedupKeyPrefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisDedupStore) Mark(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, dedupKeyPrefix+key, 1, ttl).Err()
}
