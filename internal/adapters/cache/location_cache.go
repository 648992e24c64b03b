package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/logging"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const DefaultLocationTTL = 10 * time.Minute

// LocationCache is a Redis read-through cache in front of a LocationSource.
// Only start locations are cached; task lookups always go to Next.
// Redis failures are logged and treated as misses.
type LocationCache struct {
	Next   ports.LocationSource
	Client *redis.Client
	TTL    time.Duration
}

func NewLocationCache(next ports.LocationSource, client *redis.Client, ttl time.Duration) *LocationCache {
	if ttl <= 0 {
		ttl = DefaultLocationTTL
	}
	return &LocationCache{Next: next, Client: client, TTL: ttl}
}

type cachedLocation struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func locationKey(tenantID, locationID string) string {
	return fmt.Sprintf("loc:%s:%s", tenantID, locationID)
}

func (c *LocationCache) GetLocation(
	ctx context.Context,
	tenantID string,
	locationID string,
) (_ domain.Location, err error) {
	defer obs.Time(ctx, "location.cache.GetLocation")(&err)

	if c.Next == nil {
		return domain.Location{}, errors.New("location cache: next source is nil")
	}
	if c.Client == nil {
		return c.Next.GetLocation(ctx, tenantID, locationID)
	}

	logger := logging.FromContext(ctx)
	key := locationKey(tenantID, locationID)

	raw, err := c.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cl cachedLocation
		if uerr := json.Unmarshal(raw, &cl); uerr == nil {
			return domain.Location{
				ID:          cl.ID,
				Name:        cl.Name,
				Coordinates: domain.Coordinates{Lat: cl.Lat, Lon: cl.Lng},
			}, nil
		}
		logger.Warn("location cache: dropping undecodable entry", slog.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		logging.LogError(logger, "location cache: get failed", err, slog.String("key", key))
	}

	loc, err := c.Next.GetLocation(ctx, tenantID, locationID)
	if err != nil {
		return domain.Location{}, err
	}

	// Locations without usable coordinates are rejected later; caching them would pin the bad value.
	if loc.Coordinates.Validate() != nil {
		return loc, nil
	}

	data, merr := json.Marshal(cachedLocation{
		ID:   loc.ID,
		Name: loc.Name,
		Lat:  loc.Coordinates.Lat,
		Lng:  loc.Coordinates.Lon,
	})
	if merr != nil {
		return loc, nil
	}
	if serr := c.Client.Set(ctx, key, data, c.TTL).Err(); serr != nil {
		logging.LogError(logger, "location cache: set failed", serr, slog.String("key", key))
	}

	return loc, nil
}

func (c *LocationCache) ListStops(ctx context.Context, tenantID string, taskIDs []string) ([]domain.Stop, error) {
	if c.Next == nil {
		return nil, errors.New("location cache: next source is nil")
	}
	return c.Next.ListStops(ctx, tenantID, taskIDs)
}

// Invalidate drops a cached location, e.g. after reseeding.
func (c *LocationCache) Invalidate(ctx context.Context, tenantID, locationID string) error {
	if c.Client == nil {
		return nil
	}
	if err := c.Client.Del(ctx, locationKey(tenantID, locationID)).Err(); err != nil {
		return &domain.UpstreamError{Op: "invalidate location", Err: err}
	}
	return nil
}
