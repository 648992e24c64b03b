package memory

import (
	"context"
	"slices"
	"sync"

	"route-optimizer-service/internal/adapters/seed"
	"route-optimizer-service/internal/domain"
)

// Store is an in-memory LocationSource and RouteStore for local runs and tests.
// It is safe for concurrent use; saving the same route twice keeps the last write.
type Store struct {
	mu        sync.RWMutex
	locations map[string]map[string]domain.Location
	stops     map[string]map[string]domain.Stop
	routes    map[string]*domain.Route
}

func NewStore() *Store {
	return &Store{
		locations: map[string]map[string]domain.Location{},
		stops:     map[string]map[string]domain.Stop{},
		routes:    map[string]*domain.Route{},
	}
}

// NewStoreFromSeed builds a store holding the seed's locations and tasks.
func NewStoreFromSeed(f *seed.File) *Store {
	s := NewStore()
	for _, t := range f.Tenants {
		byID := make(map[string]seed.Location, len(t.Locations))
		for _, l := range t.Locations {
			byID[l.ID] = l
			s.PutLocation(t.ID, l.ToDomain())
		}
		for _, task := range t.Tasks {
			s.PutStop(t.ID, task.ToDomain(byID[task.LocationID]))
		}
	}
	return s
}

func (s *Store) PutLocation(tenantID string, loc domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locations[tenantID] == nil {
		s.locations[tenantID] = map[string]domain.Location{}
	}
	s.locations[tenantID][loc.ID] = loc
}

func (s *Store) PutStop(tenantID string, stop domain.Stop) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stops[tenantID] == nil {
		s.stops[tenantID] = map[string]domain.Stop{}
	}
	s.stops[tenantID][stop.ID] = stop
}

func (s *Store) GetLocation(ctx context.Context, tenantID, locationID string) (domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return domain.Location{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.locations[tenantID][locationID]
	if !ok {
		return domain.Location{}, &domain.NotFoundError{Resource: "location", IDs: []string{locationID}}
	}
	return loc, nil
}

func (s *Store) ListStops(ctx context.Context, tenantID string, taskIDs []string) ([]domain.Stop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Stop, 0, len(taskIDs))
	var missing []string
	for _, id := range taskIDs {
		stop, ok := s.stops[tenantID][id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, stop)
	}

	if len(missing) > 0 {
		return nil, &domain.NotFoundError{Resource: "task", IDs: missing}
	}
	return out, nil
}

func (s *Store) SaveRoute(ctx context.Context, route *domain.Route) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if route == nil || route.TenantID == "" || route.Code == "" {
		return domain.Invalid("route must carry a tenant id and code")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.routes[routeKey(route.TenantID, route.Code)] = cloneRoute(route)
	return nil
}

func (s *Store) GetRoute(ctx context.Context, tenantID, code string) (*domain.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.routes[routeKey(tenantID, code)]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "route", IDs: []string{code}}
	}
	return cloneRoute(r), nil
}

func routeKey(tenantID, code string) string { return tenantID + "|" + code }

func cloneRoute(r *domain.Route) *domain.Route {
	c := *r
	c.Stops = slices.Clone(r.Stops)
	c.Advisories = slices.Clone(r.Advisories)
	return &c
}
