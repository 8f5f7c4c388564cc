package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Traveler1145141/TRWhitelist/pkg/email"
)

// registeredKey is the Redis set holding all normalized registered addresses.
const registeredKey = "trwhitelist:registered"

// RedisStore keeps registered addresses in a Redis set, for deployments where
// the portal runs alongside an existing Redis and the YAML file is unwanted.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed allow-list store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Contains(ctx context.Context, addr string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, registeredKey, email.Normalize(addr)).Result()
	if err != nil {
		return false, fmt.Errorf("check registered email: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Insert(ctx context.Context, addr string) error {
	// SADD is a set insert: already-present members are a no-op.
	if err := s.client.SAdd(ctx, registeredKey, email.Normalize(addr)).Err(); err != nil {
		return fmt.Errorf("insert registered email: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, registeredKey).Err(); err != nil {
		return fmt.Errorf("clear registered emails: %w", err)
	}
	return nil
}

// Load and Persist are no-ops: Redis is the durable representation.
func (s *RedisStore) Load(context.Context) error    { return nil }
func (s *RedisStore) Persist(context.Context) error { return nil }
