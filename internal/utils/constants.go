package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// GatewayFetchTimeout is the default timeout for gateway API fetches
	GatewayFetchTimeout = 15 * time.Second

	// SnapshotOpTimeout is the timeout for snapshot cache operations
	SnapshotOpTimeout = 3 * time.Second

	// RegistryOpTimeout is the timeout for alias registry operations
	RegistryOpTimeout = 5 * time.Second

	// EventPublishTimeout is the timeout for publishing invalidation events
	EventPublishTimeout = 5 * time.Second
)

// =============================================================================
// Analytics Defaults
// =============================================================================

const (
	// DefaultScatterWindow is the default lookback window for scatter queries
	DefaultScatterWindow = 24 * time.Hour

	// DefaultScatterLimit is the default maximum number of points per scatter query
	DefaultScatterLimit = 5000

	// MaxScatterLimit is the maximum allowed number of points per scatter query
	MaxScatterLimit = 50000

	// DefaultHeatmapDays is the default number of days covered by the heatmap
	DefaultHeatmapDays = 180

	// MaxHeatmapDays is the maximum number of days covered by the heatmap
	MaxHeatmapDays = 366

	// DefaultUsageWindow is the default lookback window for usage summaries
	DefaultUsageWindow = 30 * 24 * time.Hour
)

// =============================================================================
// Event Bus Type Constants
// =============================================================================

// BusType represents the type of event bus backend
type BusType string

const (
	// BusTypeNATS represents NATS JetStream (default)
	BusTypeNATS BusType = "nats"

	// BusTypeRedis represents Redis Streams
	BusTypeRedis BusType = "redis"

	// BusTypeKafka represents Apache Kafka
	BusTypeKafka BusType = "kafka"

	// BusTypeMemory represents an in-memory bus (for testing)
	BusTypeMemory BusType = "memory"
)
