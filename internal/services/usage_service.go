package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/relaygate/console/internal/analytics/heatmap"
	"github.com/relaygate/console/internal/gateway"
	"github.com/relaygate/console/internal/logging"
	"github.com/relaygate/console/internal/snapshot"
)

// UsageFetcher is the slice of the gateway client the usage service needs
type UsageFetcher interface {
	FetchDailyCounts(ctx context.Context, days int) ([]heatmap.DayCount, error)
	FetchUsageSummary(ctx context.Context, window time.Duration) (*gateway.UsageSummary, error)
}

// Snapshot key prefixes for usage data
const (
	HeatmapKeyPrefix = "heatmap:"
	UsageKeyPrefix   = "usage:"
)

// UsageService serves the activity heatmap and usage summaries
type UsageService struct {
	logger  *logging.Logger
	fetcher UsageFetcher
	cache   snapshot.Store
}

// NewUsageService creates a UsageService
func NewUsageService(logger *logging.Logger, fetcher UsageFetcher, cache snapshot.Store) *UsageService {
	return &UsageService{
		logger:  logger,
		fetcher: fetcher,
		cache:   cache,
	}
}

// Heatmap fetches daily counts and lays them out as a calendar grid
func (s *UsageService) Heatmap(ctx context.Context, days int) (*heatmap.Grid, error) {
	key := fmt.Sprintf("%s%d", HeatmapKeyPrefix, days)

	var cached heatmap.Grid
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, snapshot.ErrNotFound) {
		s.logger.Warn("Snapshot read failed, fetching directly", "key", key, "error", err)
	}

	counts, err := s.fetcher.FetchDailyCounts(ctx, days)
	if err != nil {
		s.logger.Error("Gateway daily counts fetch failed", "days", days, "error", err)
		return nil, &ServiceError{
			Code:    CodeUpstreamUnavailable,
			Message: "Failed to fetch daily activity from the gateway",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	grid := heatmap.Layout(counts)

	if err := s.cache.Set(ctx, key, grid); err != nil {
		s.logger.Warn("Snapshot write failed", "key", key, "error", err)
	}

	return &grid, nil
}

// Summary fetches the aggregate usage for a time window
func (s *UsageService) Summary(ctx context.Context, window time.Duration) (*gateway.UsageSummary, error) {
	key := fmt.Sprintf("%s%s", UsageKeyPrefix, window)

	var cached gateway.UsageSummary
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, snapshot.ErrNotFound) {
		s.logger.Warn("Snapshot read failed, fetching directly", "key", key, "error", err)
	}

	summary, err := s.fetcher.FetchUsageSummary(ctx, window)
	if err != nil {
		s.logger.Error("Gateway usage fetch failed", "window", window.String(), "error", err)
		return nil, &ServiceError{
			Code:    CodeUpstreamUnavailable,
			Message: "Failed to fetch usage summary from the gateway",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	if err := s.cache.Set(ctx, key, summary); err != nil {
		s.logger.Warn("Snapshot write failed", "key", key, "error", err)
	}

	return summary, nil
}
