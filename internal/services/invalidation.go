package services

import (
	"context"

	"github.com/relaygate/console/internal/events"
	"github.com/relaygate/console/internal/logging"
	"github.com/relaygate/console/internal/snapshot"
	"github.com/relaygate/console/internal/utils"
)

// AdminService handles operator-triggered cache maintenance
type AdminService struct {
	logger *logging.Logger
	cache  snapshot.Store
	bus    events.Bus
}

// NewAdminService creates an AdminService
func NewAdminService(logger *logging.Logger, cache snapshot.Store, bus events.Bus) *AdminService {
	return &AdminService{
		logger: logger,
		cache:  cache,
		bus:    bus,
	}
}

// InvalidateCache drops local snapshots under prefix and broadcasts the
// invalidation to the other replicas. An empty prefix clears everything.
// Returns the local drop count and whether the broadcast went out.
func (s *AdminService) InvalidateCache(ctx context.Context, prefix string) (int, bool, error) {
	dropped, err := s.cache.DeletePrefix(ctx, prefix)
	if err != nil {
		return 0, false, &ServiceError{
			Code:    CodeInternal,
			Message: "Failed to invalidate snapshot cache",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	event := events.SnapshotInvalidate(prefix)
	if prefix == "" {
		event = events.ClearAll()
	}

	publishCtx, cancel := context.WithTimeout(context.Background(), utils.EventPublishTimeout)
	defer cancel()

	broadcast := true
	if err := s.bus.Publish(publishCtx, event); err != nil {
		s.logger.Warn("Failed to broadcast cache invalidation", "prefix", prefix, "error", err)
		broadcast = false
	}

	s.logger.Info("Snapshot cache invalidated", "prefix", prefix, "dropped", dropped, "broadcast", broadcast)
	return dropped, broadcast, nil
}

// InvalidationConsumer applies invalidation events published by other
// replicas to the local snapshot cache.
type InvalidationConsumer struct {
	logger *logging.Logger
	cache  snapshot.Store
	bus    events.Bus
}

// NewInvalidationConsumer creates an InvalidationConsumer
func NewInvalidationConsumer(logger *logging.Logger, cache snapshot.Store, bus events.Bus) *InvalidationConsumer {
	return &InvalidationConsumer{
		logger: logger,
		cache:  cache,
		bus:    bus,
	}
}

// Start subscribes to all invalidation subjects
func (c *InvalidationConsumer) Start() error {
	for _, subject := range []string{
		events.SubjectAliasChanged,
		events.SubjectSnapshotInvalidate,
		events.SubjectClearAll,
	} {
		if err := c.bus.Subscribe(subject, c.handle); err != nil {
			return err
		}
	}
	return nil
}

// Stop unsubscribes from all invalidation subjects
func (c *InvalidationConsumer) Stop() {
	for _, subject := range []string{
		events.SubjectAliasChanged,
		events.SubjectSnapshotInvalidate,
		events.SubjectClearAll,
	} {
		if err := c.bus.Unsubscribe(subject); err != nil {
			c.logger.Warn("Failed to unsubscribe", "subject", subject, "error", err)
		}
	}
}

// handle maps one event to the cache prefix it dirties
func (c *InvalidationConsumer) handle(event events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), utils.SnapshotOpTimeout)
	defer cancel()

	prefix := ""
	switch event.Type {
	case events.TypeAliasChanged:
		prefix = ScatterKeyPrefix
	case events.TypeSnapshotInvalidate:
		prefix = event.Prefix
	case events.TypeClearAll:
		prefix = ""
	default:
		c.logger.Warn("Unknown invalidation event type", "type", string(event.Type))
		return nil
	}

	dropped, err := c.cache.DeletePrefix(ctx, prefix)
	if err != nil {
		c.logger.Error("Failed to apply invalidation event", "type", string(event.Type), "error", err)
		return err
	}

	c.logger.Debug("Applied invalidation event",
		"type", string(event.Type),
		"prefix", prefix,
		"dropped", dropped)
	return nil
}
