package repositories

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"route-optimizer-service/internal/domain"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutePayloadKeepsSequence(t *testing.T) {
	arrive := time.Date(2026, 3, 10, 8, 6, 0, 0, time.UTC)
	route := &domain.Route{
		Code:     "RT-20260310-ABCDEF12",
		TenantID: "acme",
		Start:    domain.Location{ID: "depot", Name: "Xinyi Depot", Coordinates: domain.Coordinates{Lat: 25.033, Lon: 121.5654}},
		Stops: []domain.RouteStop{{
			Order:                  1,
			Stop:                   domain.Stop{ID: "task-1001", Name: "Pharmacy restock", Coordinates: domain.Coordinates{Lat: 25.0263, Lon: 121.5229}, Priority: domain.PriorityUrgent, ServiceMinutes: 5},
			DistanceFromPreviousKm: 4.3456789,
			CumulativeKm:           4.3456789,
			TravelMinutes:          7,
			ArriveAt:               arrive,
			DepartAt:               arrive.Add(5 * time.Minute),
		}},
		Summary:    domain.RouteSummary{TotalStops: 1, TotalDistanceKm: 8.69, OptimizationScore: 100},
		Advisories: []string{"Urgent task scheduled first"},
	}

	raw, err := json.Marshal(toPayload(route))
	require.NoError(t, err)

	var p routePayload
	require.NoError(t, json.Unmarshal(raw, &p))

	got := &domain.Route{Code: route.Code, TenantID: route.TenantID, Start: domain.Location{ID: "depot"}}
	fromPayload(got, p)

	assert.Equal(t, route.Start, got.Start)
	assert.Equal(t, route.Summary, got.Summary)
	assert.Equal(t, route.Advisories, got.Advisories)
	require.Len(t, got.Stops, 1)
	assert.Equal(t, route.Stops[0].Stop, got.Stops[0].Stop)
	assert.Equal(t, 4.3456789, got.Stops[0].DistanceFromPreviousKm)
	assert.True(t, got.Stops[0].ArriveAt.Equal(arrive))
}

func TestMigrationsAreEmbedded(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestNilDBIsRejected(t *testing.T) {
	ctx := context.Background()

	assert.Error(t, NewPostgresRouteStore(nil).SaveRoute(ctx, &domain.Route{}))
	_, err := NewPostgresRouteStore(nil).GetRoute(ctx, "acme", "RT-x")
	assert.Error(t, err)
	_, err = NewPostgresLocationSource(nil).GetLocation(ctx, "acme", "depot")
	assert.Error(t, err)
	assert.Error(t, Migrate(nil))
	assert.Error(t, SeedFromFile(ctx, nil, nil))
}
