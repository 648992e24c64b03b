package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"route-optimizer-service/internal/adapters/memory"
	"route-optimizer-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taipeiTZ = time.FixedZone("CST", 8*60*60)

func newTestStore() *memory.Store {
	store := memory.NewStore()
	store.PutLocation("acme", domain.Location{ID: "depot", Name: "Xinyi Depot", Coordinates: taipei101})
	store.PutStop("acme", domain.Stop{ID: "A", Coordinates: domain.Coordinates{Lat: 25.0478, Lon: 121.5319}, Priority: domain.PriorityNormal, ServiceMinutes: 10, WeightKg: 2})
	store.PutStop("acme", domain.Stop{ID: "B", Coordinates: domain.Coordinates{Lat: 25.0375, Lon: 121.5637}, Priority: domain.PriorityUrgent, ServiceMinutes: 5, WeightKg: 3})
	store.PutStop("acme", domain.Stop{ID: "broken", Coordinates: domain.Coordinates{Lat: math.NaN(), Lon: math.NaN()}})
	store.PutStop("globex", domain.Stop{ID: "foreign", Coordinates: taipei101})
	return store
}

func newTestOptimizer(t *testing.T, store *memory.Store) *RouteOptimizer {
	t.Helper()

	seq, err := NewSequencer(AlgorithmGreedy, DefaultSequencerConfig())
	require.NoError(t, err)

	cfg := DefaultOptimizerConfig()
	cfg.TimeZone = taipeiTZ

	o := NewRouteOptimizer(store, store, seq, cfg)
	o.now = func() time.Time { return time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC) }
	o.newCode = func(date time.Time) string { return "RT-" + date.Format("20060102") + "-TEST" }
	return o
}

func TestOptimizeRoute(t *testing.T) {
	store := newTestStore()
	o := newTestOptimizer(t, store)
	ctx := context.Background()

	route, err := o.OptimizeRoute(ctx, OptimizeRouteRequest{
		TenantID:        "acme",
		StopIDs:         []string{"A", "B", " A "},
		StartLocationID: "depot",
		VehicleID:       "van-7",
		Date:            "2026-03-10",
	})
	require.NoError(t, err)

	assert.Equal(t, "RT-20260310-TEST", route.Code)
	assert.Equal(t, "acme", route.TenantID)
	assert.Equal(t, "van-7", route.VehicleID)
	assert.Equal(t, "depot", route.Start.ID)
	assert.Equal(t, time.Date(2026, 3, 10, 8, 0, 0, 0, taipeiTZ), route.StartAt)
	assert.Equal(t, []string{"B", "A"}, stopIDs(route))
	assert.Equal(t, 2, route.Summary.TotalStops)
	assert.Equal(t, 5.0, route.Summary.TotalWeightKg)
	assert.Contains(t, route.Advisories, "Urgent task scheduled first")

	saved, err := o.GetRoute(ctx, "acme", route.Code)
	require.NoError(t, err)
	assert.Equal(t, route.Summary, saved.Summary)
	assert.Equal(t, stopIDs(route), stopIDs(saved))
}

func TestOptimizeRouteDefaultsToTodayAtStartClock(t *testing.T) {
	o := newTestOptimizer(t, newTestStore())

	route, err := o.OptimizeRoute(context.Background(), OptimizeRouteRequest{
		TenantID: "acme", StopIDs: []string{"A"}, StartLocationID: "depot", VehicleID: "van-7",
	})
	require.NoError(t, err)

	// 23:30 UTC on March 9 is already March 10 in Taipei.
	assert.Equal(t, time.Date(2026, 3, 10, 8, 0, 0, 0, taipeiTZ), route.StartAt)
	assert.Equal(t, "RT-20260310-TEST", route.Code)
}

func TestOptimizeRouteStartAtOverride(t *testing.T) {
	o := newTestOptimizer(t, newTestStore())
	startAt := time.Date(2026, 3, 10, 13, 15, 0, 0, taipeiTZ)

	route, err := o.OptimizeRoute(context.Background(), OptimizeRouteRequest{
		TenantID: "acme", StopIDs: []string{"A"}, StartLocationID: "depot", VehicleID: "van-7",
		Date: "2026-03-10", StartAt: &startAt,
	})
	require.NoError(t, err)
	assert.True(t, route.StartAt.Equal(startAt))
	assert.True(t, route.Stops[0].ArriveAt.After(startAt))
}

func TestOptimizeRouteErrors(t *testing.T) {
	base := OptimizeRouteRequest{TenantID: "acme", StopIDs: []string{"A"}, StartLocationID: "depot", VehicleID: "van-7"}

	tests := []struct {
		name   string
		mutate func(r *OptimizeRouteRequest)
		check  func(error) bool
	}{
		{name: "no stops", mutate: func(r *OptimizeRouteRequest) { r.StopIDs = nil }, check: domain.IsInvalidInput},
		{name: "blank stop id", mutate: func(r *OptimizeRouteRequest) { r.StopIDs = []string{"A", " "} }, check: domain.IsInvalidInput},
		{name: "missing tenant", mutate: func(r *OptimizeRouteRequest) { r.TenantID = "" }, check: domain.IsInvalidInput},
		{name: "missing vehicle", mutate: func(r *OptimizeRouteRequest) { r.VehicleID = "" }, check: domain.IsInvalidInput},
		{name: "bad date", mutate: func(r *OptimizeRouteRequest) { r.Date = "10/03/2026" }, check: domain.IsInvalidInput},
		{name: "missing coordinates", mutate: func(r *OptimizeRouteRequest) { r.StopIDs = []string{"A", "broken"} }, check: domain.IsInvalidInput},
		{name: "unknown task", mutate: func(r *OptimizeRouteRequest) { r.StopIDs = []string{"A", "nope"} }, check: domain.IsNotFound},
		{name: "other tenant task", mutate: func(r *OptimizeRouteRequest) { r.StopIDs = []string{"foreign"} }, check: domain.IsNotFound},
		{name: "unknown start", mutate: func(r *OptimizeRouteRequest) { r.StartLocationID = "nowhere" }, check: domain.IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			o := newTestOptimizer(t, store)

			req := base
			req.StopIDs = append([]string(nil), base.StopIDs...)
			tt.mutate(&req)

			route, err := o.OptimizeRoute(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, route)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)

			_, err = store.GetRoute(context.Background(), "acme", "RT-20260310-TEST")
			assert.True(t, domain.IsNotFound(err), "nothing should be persisted")
		})
	}
}

type failingRouteStore struct{ *memory.Store }

func (f failingRouteStore) SaveRoute(context.Context, *domain.Route) error {
	return &domain.UpstreamError{Op: "save route", Err: errors.New("connection refused")}
}

func TestOptimizeRoutePropagatesUpstreamError(t *testing.T) {
	store := newTestStore()
	seq, err := NewSequencer(AlgorithmGreedy, DefaultSequencerConfig())
	require.NoError(t, err)

	o := NewRouteOptimizer(store, failingRouteStore{store}, seq, DefaultOptimizerConfig())

	route, err := o.OptimizeRoute(context.Background(), OptimizeRouteRequest{
		TenantID: "acme", StopIDs: []string{"A"}, StartLocationID: "depot", VehicleID: "van-7",
	})
	assert.Nil(t, route)
	assert.True(t, domain.IsUpstream(err))
	assert.Equal(t, "upstream", ErrorKind(err))
}

func TestGetRouteNotFound(t *testing.T) {
	o := newTestOptimizer(t, newTestStore())

	_, err := o.GetRoute(context.Background(), "acme", "RT-missing")
	assert.True(t, domain.IsNotFound(err))

	_, err = o.GetRoute(context.Background(), "", "RT-missing")
	assert.True(t, domain.IsInvalidInput(err))
}

func TestAdvisories(t *testing.T) {
	mk := func(ps ...domain.Priority) []domain.RouteStop {
		out := make([]domain.RouteStop, 0, len(ps))
		for _, p := range ps {
			out = append(out, domain.RouteStop{Stop: domain.Stop{Priority: p}})
		}
		return out
	}

	route := &domain.Route{
		Stops: mk(domain.PriorityNormal, domain.PriorityUrgent, domain.PriorityHigh, domain.PriorityUrgent),
		Summary: domain.RouteSummary{
			TotalDistanceKm:           20,
			ReturnLegKm:               8,
			DurationWithReturnMinutes: 9 * 60,
		},
	}

	got := Advisories(route, 8)
	assert.Equal(t, []string{
		"2 urgent stop(s) scheduled after lower-priority stops",
		"Route exceeds the 8-hour shift",
		"Return leg of 8.00 km is longer than the average stop leg",
	}, got)

	route.Stops = mk(domain.PriorityUrgent)
	route.Summary = domain.RouteSummary{TotalDistanceKm: 2, ReturnLegKm: 1}
	assert.Equal(t, []string{"Urgent task scheduled first"}, Advisories(route, 8))

	assert.Empty(t, Advisories(&domain.Route{}, 8))
}

func TestNewRouteCode(t *testing.T) {
	code := NewRouteCode(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, `^RT-20261016-[0-9A-F]{8}$`, code)
	assert.NotEqual(t, code, NewRouteCode(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "invalid_input", ErrorKind(domain.Invalid("x")))
	assert.Equal(t, "not_found", ErrorKind(&domain.NotFoundError{Resource: "task", IDs: []string{"1"}}))
	assert.Equal(t, "internal", ErrorKind(errors.New("boom")))
}
