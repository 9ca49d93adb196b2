package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/relaygate/console/internal/models"
)

func TestHandler_Scatter(t *testing.T) {
	f := newTestFixture(t)

	req := httptest.NewRequest("GET", "/v1/analytics/scatter?group_by=user_id", nil)
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	var scatterResp models.ScatterResponse
	if err := json.Unmarshal(body, &scatterResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if scatterResp.Count != 4 {
		t.Errorf("Expected 4 points, got %d", scatterResp.Count)
	}

	// The undefined first request serializes with null interval and display
	if scatterResp.Points[0].Interval != nil || scatterResp.Points[0].Display != nil {
		t.Errorf("Expected null interval/display for first point, got %+v", scatterResp.Points[0])
	}

	// Interval 5 sits at display 35 on the compressed axis
	if scatterResp.Points[1].Display == nil || math.Abs(*scatterResp.Points[1].Display-35) > 1e-9 {
		t.Errorf("Expected display 35 for interval 5, got %v", scatterResp.Points[1].Display)
	}

	if len(scatterResp.Groups) != 2 {
		t.Errorf("Expected 2 legend groups, got %d", len(scatterResp.Groups))
	}

	if len(scatterResp.Ticks) != 7 {
		t.Errorf("Expected 7 axis ticks, got %d", len(scatterResp.Ticks))
	}

	if scatterResp.Scale.Breakpoint != 10 {
		t.Errorf("Expected scale breakpoint 10, got %v", scatterResp.Scale.Breakpoint)
	}
}

func TestHandler_Scatter_InvalidParams(t *testing.T) {
	f := newTestFixture(t)

	cases := []struct {
		name string
		url  string
	}{
		{"bad window", "/v1/analytics/scatter?window=yesterday"},
		{"bad group_by", "/v1/analytics/scatter?group_by=region"},
		{"limit too large", "/v1/analytics/scatter?limit=999999"},
		{"negative limit", "/v1/analytics/scatter?limit=-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.url, nil)
			resp, err := f.app.Test(req)
			if err != nil {
				t.Fatalf("Failed to perform request: %v", err)
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
			}
		})
	}
}

func TestHandler_Scatter_UpstreamDown(t *testing.T) {
	f := newTestFixture(t)
	f.gateway.err = errors.New("connection refused")

	req := httptest.NewRequest("GET", "/v1/analytics/scatter", nil)
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadGateway {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadGateway, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if errResp.Error.Code != "UPSTREAM_UNAVAILABLE" {
		t.Errorf("Expected UPSTREAM_UNAVAILABLE, got %s", errResp.Error.Code)
	}
}

func TestHandler_ThresholdStats(t *testing.T) {
	f := newTestFixture(t)

	req := httptest.NewRequest("GET", "/v1/analytics/scatter/threshold?threshold=10&group_by=user_id", nil)
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	var statsResp models.ThresholdStatsResponse
	if err := json.Unmarshal(body, &statsResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if statsResp.Stats == nil {
		t.Fatal("Expected stats in response")
	}

	// alice: interval 5 <= 10 out of 1 countable; bob: none of 65, 120
	if statsResp.Stats.TotalCount != 3 || statsResp.Stats.TotalBelowCount != 1 {
		t.Errorf("Expected totals 1/3, got %d/%d", statsResp.Stats.TotalBelowCount, statsResp.Stats.TotalCount)
	}
}

func TestHandler_ThresholdStats_NoThreshold(t *testing.T) {
	f := newTestFixture(t)

	req := httptest.NewRequest("GET", "/v1/analytics/scatter/threshold", nil)
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"stats":null`) {
		t.Errorf("Expected null stats without a threshold, got %s", string(body))
	}
}

func TestHandler_ThresholdStatsPost(t *testing.T) {
	f := newTestFixture(t)

	payload := `{"threshold": 10, "group_by": "user_id", "window": "24h"}`
	req := httptest.NewRequest("POST", "/v1/analytics/scatter/threshold", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var statsResp models.ThresholdStatsResponse
	if err := json.Unmarshal(body, &statsResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if statsResp.Stats == nil || len(statsResp.Stats.PerGroup) != 2 {
		t.Errorf("Expected per-group stats for 2 groups, got %+v", statsResp.Stats)
	}
}

func TestHandler_ThresholdStatsPost_InvalidBody(t *testing.T) {
	f := newTestFixture(t)

	req := httptest.NewRequest("POST", "/v1/analytics/scatter/threshold", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestHandler_ThresholdStatsPost_NegativeThreshold(t *testing.T) {
	f := newTestFixture(t)

	payload := `{"threshold": -3}`
	req := httptest.NewRequest("POST", "/v1/analytics/scatter/threshold", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}
