package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pendingMarker is stored under a claimed key until the response is saved.
// Responses are JSON documents, so they never equal the marker.
const pendingMarker = "pending"

// NewRedisClient creates a client and checks that the server answers
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// IdempotencyStore keeps the outcome of idempotent calls in Redis
type IdempotencyStore struct {
	client redis.Cmdable
}

// NewIdempotencyStore creates a store backed by client
func NewIdempotencyStore(client redis.Cmdable) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Claim atomically marks key as pending, unless it already exists
func (s *IdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, pendingMarker, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return ok, nil
}

// Load returns the saved response for key. A key that is still pending, or
// that expired between Claim and Load, reports pending.
func (s *IdempotencyStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load idempotency key: %w", err)
	}
	if string(data) == pendingMarker {
		return nil, true, nil
	}
	return data, false, nil
}

// Save replaces the pending marker with the response
func (s *IdempotencyStore) Save(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, response, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save idempotent response: %w", err)
	}
	return nil
}

// Release deletes key
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
