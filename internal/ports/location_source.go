package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Port: a tenant-scoped boundary for resolving depots and delivery tasks.
type LocationSource interface {
	// Return the location with the given id, or a domain.NotFoundError.
	GetLocation(ctx context.Context, tenantID string, locationID string) (domain.Location, error)
	// Return the stops for the given task ids. Ids outside the tenant scope are
	// reported as missing with a domain.NotFoundError; the result order is unspecified.
	ListStops(ctx context.Context, tenantID string, taskIDs []string) ([]domain.Stop, error)
}
