package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores the document under a single key without expiry.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis wraps a connected client.
func NewRedis(client *redis.Client, key string) *Redis {
	return &Redis{client: client, key: key}
}

func (r *Redis) Load(ctx context.Context) ([]byte, error) {
	body, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("loading key %s: %w", r.key, err)
	}
	return body, nil
}

func (r *Redis) Save(ctx context.Context, body []byte) error {
	if err := r.client.Set(ctx, r.key, body, 0).Err(); err != nil {
		return fmt.Errorf("saving key %s: %w", r.key, err)
	}
	return nil
}
