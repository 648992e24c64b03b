package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"

	"github.com/goccy/go-json"
)

// Postgres-backed implementation of the RouteStore port.
// Summary columns are denormalized for querying; the full route lives in payload.
type PostgresRouteStore struct{ DB *sql.DB }

func NewPostgresRouteStore(db *sql.DB) *PostgresRouteStore {
	return &PostgresRouteStore{DB: db}
}

type routePayload struct {
	StartName  string              `json:"start_name"`
	StartLat   float64             `json:"start_lat"`
	StartLng   float64             `json:"start_lng"`
	Stops      []routeStopPayload  `json:"stops"`
	Summary    domain.RouteSummary `json:"summary"`
	Advisories []string            `json:"advisories"`
}

type routeStopPayload struct {
	Order                  int       `json:"order"`
	StopID                 string    `json:"stop_id"`
	Name                   string    `json:"name"`
	Lat                    float64   `json:"lat"`
	Lng                    float64   `json:"lng"`
	Priority               string    `json:"priority"`
	ServiceMinutes         int       `json:"service_minutes"`
	WeightKg               float64   `json:"weight_kg"`
	DistanceFromPreviousKm float64   `json:"distance_from_previous_km"`
	CumulativeKm           float64   `json:"cumulative_km"`
	TravelMinutes          int       `json:"travel_minutes"`
	ArriveAt               time.Time `json:"arrive_at"`
	DepartAt               time.Time `json:"depart_at"`
}

// Last write wins when two requests save the same code concurrently.
func (s *PostgresRouteStore) SaveRoute(ctx context.Context, route *domain.Route) (err error) {
	defer obs.Time(ctx, "routes.SaveRoute")(&err)

	if s.DB == nil {
		return errors.New("postgres route store: DB is nil")
	}
	if route == nil {
		return errors.New("save route: route is nil")
	}

	payload, err := json.Marshal(toPayload(route))
	if err != nil {
		return fmt.Errorf("save route: marshal payload: %w", err)
	}

	query := `
	INSERT INTO routes (
		tenant_id, route_code, vehicle_id, route_date, start_location_id, start_at,
		algorithm, total_stops, total_distance_km, total_duration_minutes,
		optimization_score, estimated_fuel_cost, payload, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (tenant_id, route_code) DO UPDATE
	SET vehicle_id = EXCLUDED.vehicle_id,
		route_date = EXCLUDED.route_date,
		start_location_id = EXCLUDED.start_location_id,
		start_at = EXCLUDED.start_at,
		algorithm = EXCLUDED.algorithm,
		total_stops = EXCLUDED.total_stops,
		total_distance_km = EXCLUDED.total_distance_km,
		total_duration_minutes = EXCLUDED.total_duration_minutes,
		optimization_score = EXCLUDED.optimization_score,
		estimated_fuel_cost = EXCLUDED.estimated_fuel_cost,
		payload = EXCLUDED.payload,
		updated_at = NOW();
	`

	_, err = s.DB.ExecContext(ctx, query,
		route.TenantID,
		route.Code,
		route.VehicleID,
		route.Date.Format("2006-01-02"),
		route.Start.ID,
		route.StartAt,
		route.Algorithm,
		route.Summary.TotalStops,
		route.Summary.TotalDistanceKm,
		route.Summary.TotalDurationMinutes,
		route.Summary.OptimizationScore,
		route.Summary.EstimatedFuelCost,
		string(payload),
		route.CreatedAt,
	)
	if err != nil {
		return &domain.UpstreamError{Op: "save route", Err: err}
	}

	return nil
}

func (s *PostgresRouteStore) GetRoute(ctx context.Context, tenantID, code string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "routes.GetRoute")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres route store: DB is nil")
	}

	query := `
	SELECT vehicle_id, route_date, start_location_id, start_at, algorithm, payload, created_at
	FROM routes
	WHERE tenant_id = $1
		AND route_code = $2;
	`

	var (
		route   = &domain.Route{TenantID: tenantID, Code: code}
		payload []byte
	)
	err = s.DB.QueryRowContext(ctx, query, tenantID, code).Scan(
		&route.VehicleID,
		&route.Date,
		&route.Start.ID,
		&route.StartAt,
		&route.Algorithm,
		&payload,
		&route.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "route", IDs: []string{code}}
	}
	if err != nil {
		return nil, &domain.UpstreamError{Op: "get route", Err: err}
	}

	var p routePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("get route: decode payload: %w", err)
	}
	fromPayload(route, p)

	return route, nil
}

func toPayload(r *domain.Route) routePayload {
	stops := make([]routeStopPayload, 0, len(r.Stops))
	for _, rs := range r.Stops {
		stops = append(stops, routeStopPayload{
			Order:                  rs.Order,
			StopID:                 rs.Stop.ID,
			Name:                   rs.Stop.Name,
			Lat:                    rs.Stop.Coordinates.Lat,
			Lng:                    rs.Stop.Coordinates.Lon,
			Priority:               string(rs.Stop.Priority),
			ServiceMinutes:         rs.Stop.ServiceMinutes,
			WeightKg:               rs.Stop.WeightKg,
			DistanceFromPreviousKm: rs.DistanceFromPreviousKm,
			CumulativeKm:           rs.CumulativeKm,
			TravelMinutes:          rs.TravelMinutes,
			ArriveAt:               rs.ArriveAt,
			DepartAt:               rs.DepartAt,
		})
	}

	return routePayload{
		StartName:  r.Start.Name,
		StartLat:   r.Start.Coordinates.Lat,
		StartLng:   r.Start.Coordinates.Lon,
		Stops:      stops,
		Summary:    r.Summary,
		Advisories: r.Advisories,
	}
}

func fromPayload(r *domain.Route, p routePayload) {
	r.Start.Name = p.StartName
	r.Start.Coordinates = domain.Coordinates{Lat: p.StartLat, Lon: p.StartLng}
	r.Summary = p.Summary
	r.Advisories = p.Advisories

	r.Stops = make([]domain.RouteStop, 0, len(p.Stops))
	for _, s := range p.Stops {
		r.Stops = append(r.Stops, domain.RouteStop{
			Order: s.Order,
			Stop: domain.Stop{
				ID:             s.StopID,
				Name:           s.Name,
				Coordinates:    domain.Coordinates{Lat: s.Lat, Lon: s.Lng},
				Priority:       domain.Priority(s.Priority),
				ServiceMinutes: s.ServiceMinutes,
				WeightKg:       s.WeightKg,
			},
			DistanceFromPreviousKm: s.DistanceFromPreviousKm,
			CumulativeKm:           s.CumulativeKm,
			TravelMinutes:          s.TravelMinutes,
			ArriveAt:               s.ArriveAt,
			DepartAt:               s.DepartAt,
		})
	}
}
