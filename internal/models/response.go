package models

import (
	"github.com/relaygate/console/internal/aliases"
	"github.com/relaygate/console/internal/analytics/scatter"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ScatterPointView is a single chart point ready for rendering. Interval
// and Display are null for points without a defined interval (a user's
// first request in the window); the frontend skips those.
type ScatterPointView struct {
	Time     int64    `json:"time"` // Unix milliseconds
	Interval *float64 `json:"interval_minutes"`
	Display  *float64 `json:"display"`
	Group    string   `json:"group,omitempty"`
}

// GroupView describes one legend entry
type GroupView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// ScaleView echoes the axis configuration so the frontend can run the
// same transform for crosshair interaction
type ScaleView struct {
	Breakpoint float64 `json:"breakpoint"`
	LowerRatio float64 `json:"lower_ratio"`
	UpperBound float64 `json:"upper_bound"`
}

// ScatterResponse is the payload of GET /v1/analytics/scatter
type ScatterResponse struct {
	Points []ScatterPointView `json:"points"`
	Groups []GroupView        `json:"groups,omitempty"`
	Ticks  []scatter.Tick     `json:"ticks"`
	Scale  ScaleView          `json:"scale"`
	Count  int                `json:"count"`
}

// ThresholdStatsResponse is the payload of the threshold stats endpoint.
// Stats is null when no threshold is set or no points are countable.
type ThresholdStatsResponse struct {
	Stats *scatter.Stats `json:"stats"`
}

// AliasListResponse is the payload of GET /v1/aliases
type AliasListResponse struct {
	Aliases []*aliases.Alias `json:"aliases"`
	Count   int              `json:"count"`
}

// ResolveResponse is the payload of GET /v1/aliases/:name/resolve
type ResolveResponse struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

// InvalidateCacheResponse is the payload of POST /admin/cache/invalidate
type InvalidateCacheResponse struct {
	Dropped   int  `json:"dropped"`
	Broadcast bool `json:"broadcast"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
