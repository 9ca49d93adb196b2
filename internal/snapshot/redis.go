package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/relaygate/console/internal/config"
)

// keyNamespace prefixes every redis key so the console can share a redis
// instance with other tenants
const keyNamespace = "console:snapshot:"

// RedisStore is the production Store: snapshots live in redis as
// snappy-compressed JSON with a per-entry TTL, shared across console
// replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redis and verifies the connection
func NewRedisStore(cfg config.SnapshotConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		// Fallback to treating the URL as a plain address
		opts = &redis.Options{
			Addr: cfg.RedisURL,
			DB:   cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

func (s *RedisStore) redisKey(key string) string {
	return keyNamespace + key
}

// Get retrieves and decodes a snapshot
func (s *RedisStore) Get(ctx context.Context, key string, out interface{}) error {
	raw, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	return decode(raw, out)
}

// Set encodes and stores a snapshot under key with the configured TTL
func (s *RedisStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := encode(value)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.redisKey(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}

	return nil
}

// DeletePrefix scans for keys under prefix and deletes them in batches.
// SCAN avoids blocking redis the way KEYS would on a large keyspace.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	pattern := s.redisKey(prefix) + "*"
	removed := 0

	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.client.Del(ctx, batch...).Result()
		removed += int(n)
		batch = batch[:0]
		return err
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return removed, fmt.Errorf("failed to delete snapshot keys: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan snapshot keys: %w", err)
	}
	if err := flush(); err != nil {
		return removed, fmt.Errorf("failed to delete snapshot keys: %w", err)
	}

	return removed, nil
}

// Close closes the redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
