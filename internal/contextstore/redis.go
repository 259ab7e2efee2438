package contextstore

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces all context references in Redis.
const keyPrefix = "drixl:"

// RedisStore is the remote backend for multi-process agent fleets.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis at the given URL (redis://host:port) and
// verifies the connection with a ping.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func key(ref string) string { return keyPrefix + ref }

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, ref, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, key(ref), value, ttl).Err()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, ref string) (string, error) {
	val, err := s.client.Get(ctx, key(ref)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, ref string) error {
	return s.client.Del(ctx, key(ref)).Err()
}

// Refs implements Store.
func (s *RedisStore) Refs(ctx context.Context) ([]string, error) {
	keys, err := s.client.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}
	refs := make([]string, 0, len(keys))
	for _, k := range keys {
		refs = append(refs, strings.TrimPrefix(k, keyPrefix))
	}
	return refs, nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.client.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error { return s.client.Close() }
