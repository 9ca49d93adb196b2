package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/relaygate/console/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.GatewayConfig{
		BaseURL: srv.URL,
		APIKey:  "test-admin-key",
		Timeout: 5 * time.Second,
	})
}

func TestFetchRequestPoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/v1/requests/intervals" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Admin-Key"); got != "test-admin-key" {
			t.Errorf("missing or wrong API key header: %q", got)
		}
		if got := r.URL.Query().Get("window"); got != "24h0m0s" {
			t.Errorf("window param = %q", got)
		}
		if got := r.URL.Query().Get("group_by"); got != "user_id" {
			t.Errorf("group_by param = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5000" {
			t.Errorf("limit param = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"points": [
				{"time": "2026-08-22T10:00:00Z", "interval_minutes": null, "user_id": "u1", "model": "gpt-4"},
				{"time": "2026-08-22T10:05:30Z", "interval_minutes": 5.5, "user_id": "u1", "model": "gpt-4"}
			]
		}`))
	})

	points, err := client.FetchRequestPoints(context.Background(), PointsQuery{
		Window:  24 * time.Hour,
		GroupBy: "user_id",
		Limit:   5000,
	})
	if err != nil {
		t.Fatalf("FetchRequestPoints failed: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	// First request in the window has a null interval
	if points[0].Defined() {
		t.Errorf("first point should have an undefined interval, got %v", points[0].Interval)
	}
	if points[0].UserID != "u1" || points[0].Model != "gpt-4" {
		t.Errorf("unexpected first point: %+v", points[0])
	}

	if !points[1].Defined() || points[1].Interval != 5.5 {
		t.Errorf("second point interval = %v, want 5.5", points[1].Interval)
	}
}

func TestFetchRequestPoints_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	if _, err := client.FetchRequestPoints(context.Background(), PointsQuery{Window: time.Hour, Limit: 10}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestFetchRequestPoints_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	if _, err := client.FetchRequestPoints(context.Background(), PointsQuery{Window: time.Hour, Limit: 10}); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestFetchDailyCounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/v1/requests/daily" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("days"); got != "30" {
			t.Errorf("days param = %q", got)
		}

		w.Write([]byte(`{"days": [
			{"date": "2026-08-20", "count": 12},
			{"date": "2026-08-21", "count": 0}
		]}`))
	})

	counts, err := client.FetchDailyCounts(context.Background(), 30)
	if err != nil {
		t.Fatalf("FetchDailyCounts failed: %v", err)
	}

	if len(counts) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(counts))
	}
	if counts[0].Count != 12 || counts[0].Date.Format(time.DateOnly) != "2026-08-20" {
		t.Errorf("unexpected first entry: %+v", counts[0])
	}
}

func TestFetchDailyCounts_BadDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"days": [{"date": "not-a-date", "count": 1}]}`))
	})

	if _, err := client.FetchDailyCounts(context.Background(), 7); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestFetchUsageSummary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/v1/usage/summary" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		w.Write([]byte(`{
			"window": "720h",
			"requests": 10432,
			"input_tokens": 9000000,
			"output_tokens": 1200000,
			"cost_usd": 412.55,
			"distinct_users": 87,
			"distinct_models": 6
		}`))
	})

	summary, err := client.FetchUsageSummary(context.Background(), 720*time.Hour)
	if err != nil {
		t.Fatalf("FetchUsageSummary failed: %v", err)
	}

	if summary.Requests != 10432 {
		t.Errorf("requests = %d, want 10432", summary.Requests)
	}
	if summary.CostUSD != 412.55 {
		t.Errorf("cost = %v, want 412.55", summary.CostUSD)
	}
	if summary.DistinctUsers != 87 || summary.DistinctModel != 6 {
		t.Errorf("distinct counts = %d/%d, want 87/6", summary.DistinctUsers, summary.DistinctModel)
	}
}

func TestFetchUsageSummary_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.FetchUsageSummary(ctx, time.Hour); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
