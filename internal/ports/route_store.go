package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Port: persistence sink for computed routes.
type RouteStore interface {
	// Insert or replace the route keyed by (TenantID, Code).
	SaveRoute(ctx context.Context, route *domain.Route) error
	// Return a previously saved route, or a domain.NotFoundError.
	GetRoute(ctx context.Context, tenantID string, code string) (*domain.Route, error)
}
