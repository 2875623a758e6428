package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores each key as a plain Redis string under Prefix.  Values
// never expire.  Several server processes may share one Redis; writes
// stay last-writer-wins because the store rewrites whole collections.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis wraps an existing client.  An empty prefix stores keys
// verbatim.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis storage: get %s: %w", key, err)
	}
	return b, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis storage: set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis storage: del %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error { return r.rdb.Close() }
