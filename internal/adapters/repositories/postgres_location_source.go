package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"route-optimizer-service/internal/adapters/seed"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
)

// Postgres-backed implementation of the LocationSource port.
// Every query is filtered by tenant, so foreign ids surface as not found.
type PostgresLocationSource struct{ DB *sql.DB }

func NewPostgresLocationSource(db *sql.DB) *PostgresLocationSource {
	return &PostgresLocationSource{DB: db}
}

func (s *PostgresLocationSource) GetLocation(
	ctx context.Context,
	tenantID string,
	locationID string,
) (_ domain.Location, err error) {
	defer obs.Time(ctx, "locations.GetLocation")(&err)

	if s.DB == nil {
		return domain.Location{}, errors.New("postgres location source: DB is nil")
	}

	query := `
	SELECT location_id, name, lat, lng
	FROM locations
	WHERE tenant_id = $1
		AND location_id = $2;
	`

	var (
		id, name string
		lat, lng sql.NullFloat64
	)
	err = s.DB.QueryRowContext(ctx, query, tenantID, locationID).Scan(&id, &name, &lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, &domain.NotFoundError{Resource: "location", IDs: []string{locationID}}
	}
	if err != nil {
		return domain.Location{}, &domain.UpstreamError{Op: "get location", Err: err}
	}

	return domain.Location{
		ID:          id,
		Name:        name,
		Coordinates: seed.Coordinates(nullable(lat), nullable(lng)),
	}, nil
}

func (s *PostgresLocationSource) ListStops(
	ctx context.Context,
	tenantID string,
	taskIDs []string,
) (_ []domain.Stop, err error) {
	defer obs.Time(ctx, "locations.ListStops")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres location source: DB is nil")
	}

	if len(taskIDs) == 0 {
		return []domain.Stop{}, nil
	}

	query := `
	SELECT
		t.task_id,
		t.title,
		t.priority,
		t.service_minutes,
		t.weight_kg,
		l.lat,
		l.lng
	FROM tasks t
	JOIN locations l
		ON l.tenant_id = t.tenant_id
		AND l.location_id = t.location_id
	WHERE t.tenant_id = $1
		AND t.task_id = ANY($2::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, query, tenantID, taskIDs)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "list stops", Err: err}
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, len(taskIDs))
	found := make(map[string]struct{}, len(taskIDs))
	for rows.Next() {
		var (
			id, title, priority string
			serviceMinutes      int
			weight              float64
			lat, lng            sql.NullFloat64
		)
		if err := rows.Scan(&id, &title, &priority, &serviceMinutes, &weight, &lat, &lng); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}

		found[id] = struct{}{}
		stops = append(stops, domain.Stop{
			ID:             id,
			Name:           title,
			Coordinates:    seed.Coordinates(nullable(lat), nullable(lng)),
			Priority:       domain.ParsePriority(priority),
			ServiceMinutes: serviceMinutes,
			WeightKg:       weight,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.UpstreamError{Op: "list stops", Err: err}
	}

	var missing []string
	for _, id := range taskIDs {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.NotFoundError{Resource: "task", IDs: missing}
	}

	return stops, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
