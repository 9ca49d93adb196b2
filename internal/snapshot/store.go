// Package snapshot caches fetched analytics data so interactive operations
// (pointer moves, threshold changes) never refetch from the gateway.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/snappy"
)

// ErrNotFound is returned when a key is absent or its entry has expired
var ErrNotFound = errors.New("snapshot not found")

// Store is a TTL'd key-value cache for analytics snapshots. Values are
// arbitrary JSON-encodable structures; invalidation works on key prefixes
// because one upstream change (an alias edit, a config reload) dirties a
// whole family of query keys at once.
type Store interface {
	Get(ctx context.Context, key string, out interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Close() error
}

// encode serializes a value as snappy-compressed JSON
func encode(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

// decode reverses encode into out
func decode(raw []byte, out interface{}) error {
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		return fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return nil
}
