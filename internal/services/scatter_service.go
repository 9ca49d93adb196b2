package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/relaygate/console/internal/analytics"
	"github.com/relaygate/console/internal/analytics/scatter"
	"github.com/relaygate/console/internal/config"
	"github.com/relaygate/console/internal/gateway"
	"github.com/relaygate/console/internal/logging"
	"github.com/relaygate/console/internal/models"
	"github.com/relaygate/console/internal/snapshot"
)

// PointsFetcher is the slice of the gateway client the scatter service needs
type PointsFetcher interface {
	FetchRequestPoints(ctx context.Context, q gateway.PointsQuery) (analytics.RequestPoints, error)
}

// ScatterService assembles the request-interval scatter chart: fetches
// points (through the snapshot cache), groups them, applies the axis
// transform, and computes threshold statistics.
type ScatterService struct {
	logger  *logging.Logger
	fetcher PointsFetcher
	cache   snapshot.Store
	scale   *scatter.Scale
}

// NewScatterService creates a ScatterService. The axis configuration is
// validated here so a misconfigured chart fails at startup.
func NewScatterService(logger *logging.Logger, fetcher PointsFetcher, cache snapshot.Store, chart config.ChartConfig) (*ScatterService, error) {
	scale, err := scatter.NewScale(chart.Breakpoint, chart.LowerRatio, chart.UpperBound, chart.Landmarks)
	if err != nil {
		return nil, fmt.Errorf("invalid chart configuration: %w", err)
	}

	return &ScatterService{
		logger:  logger,
		fetcher: fetcher,
		cache:   cache,
		scale:   scale,
	}, nil
}

// Scale exposes the configured axis transform (used by handlers for the
// config echo)
func (s *ScatterService) Scale() *scatter.Scale {
	return s.scale
}

// Scatter builds the full chart payload for a query
func (s *ScatterService) Scatter(ctx context.Context, q *models.ScatterQuery) (*models.ScatterResponse, error) {
	points, err := s.loadPoints(ctx, q)
	if err != nil {
		return nil, err
	}

	chartPoints := toChartPoints(points, q.GroupBy)
	groups := scatter.GroupPoints(chartPoints)

	resp := &models.ScatterResponse{
		Points: make([]models.ScatterPointView, 0, len(points)),
		Ticks:  s.scale.Ticks(),
		Scale: models.ScaleView{
			Breakpoint: s.scale.Breakpoint,
			LowerRatio: s.scale.LowerRatio,
			UpperBound: s.scale.UpperBound,
		},
		Count: len(points),
	}

	for i, p := range points {
		view := models.ScatterPointView{
			Time:  p.Time.UnixMilli(),
			Group: chartPoints[i].Key,
		}
		if p.Defined() {
			interval := p.Interval
			display := s.scale.ToDisplay(interval)
			view.Interval = &interval
			view.Display = &display
		}
		resp.Points = append(resp.Points, view)
	}

	for _, g := range groups {
		resp.Groups = append(resp.Groups, models.GroupView{
			Key:   g.Key,
			Label: g.Label,
			Color: g.Color,
			Count: len(g.Points),
		})
	}

	return resp, nil
}

// ThresholdStats computes per-group and grand-total statistics for an
// optional threshold over the same snapshot the chart renders. A nil
// threshold yields nil stats, which the handler serializes as null.
func (s *ScatterService) ThresholdStats(ctx context.Context, q *models.ScatterQuery, threshold *float64) (*scatter.Stats, error) {
	if threshold == nil {
		return nil, nil
	}

	points, err := s.loadPoints(ctx, q)
	if err != nil {
		return nil, err
	}

	chartPoints := toChartPoints(points, q.GroupBy)
	groups := scatter.GroupPoints(chartPoints)
	if groups == nil {
		// Grouping suppressed: compute over a single ungrouped series
		groups = []scatter.Group{{Key: "all", Label: "all", Points: chartPoints}}
	}

	return scatter.ComputeStats(threshold, groups), nil
}

// loadPoints is the snapshot-cache read-through: cache hit serves the
// stored points, a miss fetches from the gateway and stores the result.
// Cache failures degrade to a direct fetch; gateway failures surface as
// UPSTREAM_UNAVAILABLE.
func (s *ScatterService) loadPoints(ctx context.Context, q *models.ScatterQuery) (analytics.RequestPoints, error) {
	key := scatterSnapshotKey(q)

	var cached analytics.RequestPoints
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		s.logger.Debug("Scatter snapshot hit", "key", key, "points", len(cached))
		return cached, nil
	}
	if !errors.Is(err, snapshot.ErrNotFound) {
		s.logger.Warn("Snapshot read failed, fetching directly", "key", key, "error", err)
	}

	start := time.Now()
	points, err := s.fetcher.FetchRequestPoints(ctx, gateway.PointsQuery{
		Window:  q.Window,
		GroupBy: q.GroupBy,
		Limit:   q.Limit,
	})
	if err != nil {
		s.logger.Error("Gateway fetch failed",
			"window", q.Window.String(),
			"group_by", q.GroupBy,
			"error", err)
		return nil, &ServiceError{
			Code:    CodeUpstreamUnavailable,
			Message: "Failed to fetch request data from the gateway",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	s.logger.Info("Fetched request points",
		"window", q.Window.String(),
		"group_by", q.GroupBy,
		"points", len(points),
		"latency_ms", time.Since(start).Milliseconds())

	if err := s.cache.Set(ctx, key, points); err != nil {
		s.logger.Warn("Snapshot write failed", "key", key, "error", err)
	}

	return points, nil
}

// ScatterKeyPrefix is the snapshot key prefix for all scatter queries
const ScatterKeyPrefix = "scatter:"

func scatterSnapshotKey(q *models.ScatterQuery) string {
	groupBy := q.GroupBy
	if groupBy == "" {
		groupBy = "none"
	}
	return fmt.Sprintf("%s%s:%s:%d", ScatterKeyPrefix, q.Window, groupBy, q.Limit)
}

// toChartPoints converts request samples into plottable points keyed by the
// requested grouping dimension. An empty groupBy produces keyless points so
// grouping stays suppressed.
func toChartPoints(points analytics.RequestPoints, groupBy string) []scatter.Point {
	out := make([]scatter.Point, len(points))
	for i, p := range points {
		key := ""
		switch groupBy {
		case models.GroupByUser:
			key = p.UserID
		case models.GroupByModel:
			key = p.Model
		}
		out[i] = scatter.Point{Time: p.Time, Value: p.Interval, Key: key}
	}
	return out
}
