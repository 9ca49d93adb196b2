package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/relaygate/console/internal/utils"
)

// Grouping dimensions accepted by the scatter endpoints
const (
	GroupByUser  = "user_id"
	GroupByModel = "model"
)

// ScatterQuery is the normalized form of the scatter chart query parameters
type ScatterQuery struct {
	Window  time.Duration
	GroupBy string
	Limit   int
}

// ParseScatterQuery validates raw query parameters and applies defaults.
// Empty values fall back to the defaults; out-of-range values are rejected
// rather than clamped so callers notice their mistake.
func ParseScatterQuery(window, groupBy, limit string) (*ScatterQuery, error) {
	q := &ScatterQuery{
		Window: utils.DefaultScatterWindow,
		Limit:  utils.DefaultScatterLimit,
	}

	if window != "" {
		d, err := time.ParseDuration(window)
		if err != nil {
			return nil, fmt.Errorf("invalid window %q: %w", window, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("window must be positive, got %q", window)
		}
		q.Window = d
	}

	switch groupBy {
	case "", GroupByUser, GroupByModel:
		q.GroupBy = groupBy
	default:
		return nil, fmt.Errorf("group_by must be %q or %q, got %q", GroupByUser, GroupByModel, groupBy)
	}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return nil, fmt.Errorf("invalid limit %q: %w", limit, err)
		}
		if n < 1 || n > utils.MaxScatterLimit {
			return nil, fmt.Errorf("limit must be between 1 and %d, got %d", utils.MaxScatterLimit, n)
		}
		q.Limit = n
	}

	return q, nil
}

// ParseThreshold parses an optional threshold parameter. An empty value
// means no threshold is set, which is a valid state, not an error.
func ParseThreshold(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid threshold %q: %w", raw, err)
	}
	if v < 0 {
		return nil, fmt.Errorf("threshold must be non-negative, got %v", v)
	}

	return &v, nil
}

// ParseHeatmapDays validates the heatmap day-span parameter
func ParseHeatmapDays(raw string) (int, error) {
	if raw == "" {
		return utils.DefaultHeatmapDays, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid days %q: %w", raw, err)
	}
	if n < 1 || n > utils.MaxHeatmapDays {
		return 0, fmt.Errorf("days must be between 1 and %d, got %d", utils.MaxHeatmapDays, n)
	}

	return n, nil
}

// ParseUsageWindow validates the usage summary window parameter
func ParseUsageWindow(raw string) (time.Duration, error) {
	if raw == "" {
		return utils.DefaultUsageWindow, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid window %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("window must be positive, got %q", raw)
	}

	return d, nil
}

// PutAliasRequest is the body of PUT /v1/aliases/:name
type PutAliasRequest struct {
	Target      string `json:"target"`
	Provider    string `json:"provider"`
	DisplayName string `json:"display_name,omitempty"`
	Active      bool   `json:"active"`
}

// InvalidateCacheRequest is the body of POST /admin/cache/invalidate.
// An empty prefix drops the entire snapshot cache.
type InvalidateCacheRequest struct {
	Prefix string `json:"prefix,omitempty"`
}
