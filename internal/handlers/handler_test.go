package handlers

import (
	"context"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/relaygate/console/internal/aliases"
	"github.com/relaygate/console/internal/analytics"
	"github.com/relaygate/console/internal/analytics/heatmap"
	"github.com/relaygate/console/internal/config"
	"github.com/relaygate/console/internal/events"
	"github.com/relaygate/console/internal/gateway"
	"github.com/relaygate/console/internal/logging"
	"github.com/relaygate/console/internal/snapshot"
)

// fakeGateway serves canned analytics data in place of the upstream API
type fakeGateway struct {
	points  analytics.RequestPoints
	counts  []heatmap.DayCount
	summary *gateway.UsageSummary
	err     error
}

func (f *fakeGateway) FetchRequestPoints(ctx context.Context, q gateway.PointsQuery) (analytics.RequestPoints, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.points, nil
}

func (f *fakeGateway) FetchDailyCounts(ctx context.Context, days int) ([]heatmap.DayCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

func (f *fakeGateway) FetchUsageSummary(ctx context.Context, window time.Duration) (*gateway.UsageSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

// fakeRegistry is a map-backed stand-in for the etcd alias registry
type fakeRegistry struct {
	entries map[string]*aliases.Alias
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{entries: make(map[string]*aliases.Alias)}
}

func (r *fakeRegistry) Put(ctx context.Context, alias *aliases.Alias) error {
	copied := *alias
	r.entries[alias.Name] = &copied
	return nil
}

func (r *fakeRegistry) Get(ctx context.Context, name string) (*aliases.Alias, error) {
	alias, ok := r.entries[name]
	if !ok {
		return nil, aliases.ErrNotFound
	}
	return alias, nil
}

func (r *fakeRegistry) List(ctx context.Context) ([]*aliases.Alias, error) {
	out := make([]*aliases.Alias, 0, len(r.entries))
	for _, a := range r.entries {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRegistry) Delete(ctx context.Context, name string) error {
	if _, ok := r.entries[name]; !ok {
		return aliases.ErrNotFound
	}
	delete(r.entries, name)
	return nil
}

func (r *fakeRegistry) Resolve(ctx context.Context, name string) (string, error) {
	if alias, ok := r.entries[name]; ok && alias.Active {
		return alias.Target, nil
	}
	return name, nil
}

func testChartConfig() config.ChartConfig {
	return config.ChartConfig{
		Breakpoint: 10,
		LowerRatio: 0.7,
		UpperBound: 120,
		Landmarks:  []float64{0, 2, 5, 10, 30, 60, 120},
	}
}

func testPoints() analytics.RequestPoints {
	base := time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC)
	return analytics.RequestPoints{
		{Time: base, Interval: math.NaN(), UserID: "alice", Model: "gpt-4"},
		{Time: base.Add(5 * time.Minute), Interval: 5, UserID: "alice", Model: "gpt-4"},
		{Time: base.Add(10 * time.Minute), Interval: 65, UserID: "bob", Model: "claude-3"},
		{Time: base.Add(15 * time.Minute), Interval: 120, UserID: "bob", Model: "claude-3"},
	}
}

type testFixture struct {
	handler  *Handler
	app      *fiber.App
	gateway  *fakeGateway
	registry *fakeRegistry
	bus      *events.MemoryBus
	cache    *snapshot.MemoryStore
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	gw := &fakeGateway{points: testPoints()}
	registry := newFakeRegistry()
	cache := snapshot.NewMemoryStore(time.Minute)
	bus := events.NewMemoryBus()
	t.Cleanup(func() {
		_ = cache.Close()
		_ = bus.Close()
	})

	handler, err := New(logging.NewDevelopment(), gw, cache, registry, bus, testChartConfig())
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}

	app := fiber.New()
	app.Get("/health", handler.Health)
	app.Get("/v1/analytics/scatter", handler.Scatter)
	app.Get("/v1/analytics/scatter/threshold", handler.ThresholdStats)
	app.Post("/v1/analytics/scatter/threshold", handler.ThresholdStatsPost)
	app.Get("/v1/analytics/heatmap", handler.Heatmap)
	app.Get("/v1/analytics/usage", handler.UsageSummary)
	app.Get("/v1/aliases", handler.ListAliases)
	app.Get("/v1/aliases/:name", handler.GetAlias)
	app.Put("/v1/aliases/:name", handler.PutAlias)
	app.Delete("/v1/aliases/:name", handler.DeleteAlias)
	app.Get("/v1/aliases/:name/resolve", handler.ResolveAlias)
	app.Post("/admin/cache/invalidate", handler.InvalidateCache)
	app.Use(handler.NotFound)

	return &testFixture{
		handler:  handler,
		app:      app,
		gateway:  gw,
		registry: registry,
		bus:      bus,
		cache:    cache,
	}
}
