// Package redis stores the problem log as one JSON document in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Backend handles Redis reads and writes for the tracker.
type Backend struct {
	client *redis.Client
}

// NewBackend wraps an already connected client (see internal/redis).
func NewBackend(client *redis.Client) *Backend {
	return &Backend{
		client: client,
	}
}

// Get retrieves the raw document stored under key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, DocumentKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, true, nil
}

// Set replaces the document stored under key. Documents never expire.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, DocumentKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Ping reports whether Redis answers, for readiness checks.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *Backend) Close() error {
	return b.client.Close()
}
