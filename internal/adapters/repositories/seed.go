package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"route-optimizer-service/internal/adapters/seed"
	"route-optimizer-service/internal/domain"
)

// SeedFromFile upserts the locations and tasks of a seed file in one transaction.
func SeedFromFile(ctx context.Context, db *sql.DB, f *seed.File) error {
	if db == nil {
		return errors.New("seed: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	locStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO locations (tenant_id, location_id, name, lat, lng)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (tenant_id, location_id) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`)
	if err != nil {
		return fmt.Errorf("seed: prepare location insert: %w", err)
	}
	defer locStmt.Close()

	taskStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO tasks (tenant_id, task_id, location_id, title, priority, service_minutes, weight_kg)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (tenant_id, task_id) DO UPDATE
	SET location_id = EXCLUDED.location_id,
		title = EXCLUDED.title,
		priority = EXCLUDED.priority,
		service_minutes = EXCLUDED.service_minutes,
		weight_kg = EXCLUDED.weight_kg;
	`)
	if err != nil {
		return fmt.Errorf("seed: prepare task insert: %w", err)
	}
	defer taskStmt.Close()

	for _, t := range f.Tenants {
		for _, l := range t.Locations {
			if _, err := locStmt.ExecContext(ctx, t.ID, l.ID, l.Name, l.Lat, l.Lng); err != nil {
				return fmt.Errorf("seed: insert location tenant=%s id=%s: %w", t.ID, l.ID, err)
			}
		}
		for _, task := range t.Tasks {
			priority := string(domain.ParsePriority(task.Priority))
			if _, err := taskStmt.ExecContext(ctx,
				t.ID, task.ID, task.LocationID, task.Title, priority, task.ServiceMinutes, task.WeightKg,
			); err != nil {
				return fmt.Errorf("seed: insert task tenant=%s id=%s: %w", t.ID, task.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
