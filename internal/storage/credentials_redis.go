package storage

import (
	"context"
	"errors"
	"fmt"

	go_json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const credentialsKey = "meli:credentials"

var _ CredentialStore = (*RedisCredentialStore)(nil)

// RedisCredentialStore persists the pair so a restart does not require
// re-running the authorization flow.
type RedisCredentialStore struct {
	client *redis.Client
}

func NewRedisCredentialStore(client *redis.Client) *RedisCredentialStore {
	return &RedisCredentialStore{client: client}
}

func (s *RedisCredentialStore) Get(ctx context.Context) (Credentials, error) {
	data, err := s.client.Get(ctx, credentialsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("get credentials: %w", err)
	}

	var creds Credentials
	if err := go_json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("unmarshal credentials: %w", err)
	}
	return creds, nil
}

func (s *RedisCredentialStore) Set(ctx context.Context, creds Credentials) error {
	data, err := go_json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := s.client.Set(ctx, credentialsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("set credentials: %w", err)
	}
	return nil
}
