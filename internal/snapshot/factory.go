package snapshot

import (
	"fmt"

	"github.com/relaygate/console/internal/config"
)

// New creates a snapshot store from configuration
func New(cfg config.SnapshotConfig) (Store, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedisStore(cfg)
	case "memory":
		return NewMemoryStore(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot backend: %s", cfg.Backend)
	}
}
