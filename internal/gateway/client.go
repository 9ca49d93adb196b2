// Package gateway is the REST client for the upstream LLM API gateway. The
// console never owns the request log; everything it charts is fetched from
// the gateway's admin endpoints.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/relaygate/console/internal/analytics"
	"github.com/relaygate/console/internal/analytics/heatmap"
	"github.com/relaygate/console/internal/config"
)

const apiKeyHeader = "X-Admin-Key"

// PointsQuery selects a slice of the gateway's request log
type PointsQuery struct {
	Window  time.Duration
	GroupBy string // "user_id" or "model", empty for ungrouped
	Limit   int
}

// UsageSummary is the gateway's aggregate view of a time window
type UsageSummary struct {
	Window        string  `json:"window"`
	Requests      int64   `json:"requests"`
	InputTokens   int64   `json:"input_tokens"`
	OutputTokens  int64   `json:"output_tokens"`
	CostUSD       float64 `json:"cost_usd"`
	DistinctUsers int     `json:"distinct_users"`
	DistinctModel int     `json:"distinct_models"`
}

// Client talks to the gateway admin API. Failures are wrapped and returned;
// retry policy belongs to the caller.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a gateway client from configuration
func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// requestPointDTO mirrors the gateway's wire format. Interval is a pointer
// because the gateway emits null for a user's first request in the window.
type requestPointDTO struct {
	Time            time.Time `json:"time"`
	IntervalMinutes *float64  `json:"interval_minutes"`
	UserID          string    `json:"user_id"`
	Model           string    `json:"model"`
}

type requestPointsResponse struct {
	Points []requestPointDTO `json:"points"`
}

// FetchRequestPoints retrieves request-log samples for the scatter chart.
// Null intervals come back as NaN so downstream math can skip them without
// pointer plumbing.
func (c *Client) FetchRequestPoints(ctx context.Context, q PointsQuery) (analytics.RequestPoints, error) {
	params := url.Values{}
	params.Set("window", q.Window.String())
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.GroupBy != "" {
		params.Set("group_by", q.GroupBy)
	}

	var resp requestPointsResponse
	if err := c.get(ctx, "/admin/v1/requests/intervals", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch request points: %w", err)
	}

	points := make(analytics.RequestPoints, len(resp.Points))
	for i, dto := range resp.Points {
		interval := math.NaN()
		if dto.IntervalMinutes != nil {
			interval = *dto.IntervalMinutes
		}
		points[i] = analytics.RequestPoint{
			Time:     dto.Time,
			Interval: interval,
			UserID:   dto.UserID,
			Model:    dto.Model,
		}
	}

	return points, nil
}

type dailyCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type dailyCountsResponse struct {
	Days []dailyCountDTO `json:"days"`
}

// FetchDailyCounts retrieves per-day request totals for the activity heatmap
func (c *Client) FetchDailyCounts(ctx context.Context, days int) ([]heatmap.DayCount, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	var resp dailyCountsResponse
	if err := c.get(ctx, "/admin/v1/requests/daily", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch daily counts: %w", err)
	}

	counts := make([]heatmap.DayCount, 0, len(resp.Days))
	for _, dto := range resp.Days {
		date, err := time.Parse(time.DateOnly, dto.Date)
		if err != nil {
			return nil, fmt.Errorf("gateway returned malformed date %q: %w", dto.Date, err)
		}
		counts = append(counts, heatmap.DayCount{Date: date, Count: dto.Count})
	}

	return counts, nil
}

// FetchUsageSummary retrieves aggregate usage for a time window
func (c *Client) FetchUsageSummary(ctx context.Context, window time.Duration) (*UsageSummary, error) {
	params := url.Values{}
	params.Set("window", window.String())

	var summary UsageSummary
	if err := c.get(ctx, "/admin/v1/usage/summary", params, &summary); err != nil {
		return nil, fmt.Errorf("failed to fetch usage summary: %w", err)
	}

	return &summary, nil
}

// get performs an authenticated GET and decodes the JSON body into out
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid gateway URL: %w", err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return nil
}
