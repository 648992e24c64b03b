package seed

import (
	"fmt"
	"math"
	"os"
	"strings"

	"route-optimizer-service/internal/domain"

	"github.com/goccy/go-json"
)

// File is the demo data layout shared by the database seeder and the memory store.
type File struct {
	Tenants []Tenant `json:"tenants"`
}

type Tenant struct {
	ID        string     `json:"id"`
	Locations []Location `json:"locations"`
	Tasks     []Task     `json:"tasks"`
}

// Lat and Lng are pointers so that a location without coordinates can be
// represented and rejected at optimization time.
type Location struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type Task struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	LocationID     string  `json:"location_id"`
	Priority       string  `json:"priority"`
	ServiceMinutes int     `json:"service_minutes"`
	WeightKg       float64 `json:"weight_kg"`
}

// Load reads and checks a seed file.
func Load(path string) (*File, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(bytes, &f); err != nil {
		return nil, fmt.Errorf("load seed: parse json: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	return &f, nil
}

// Validate checks identifiers and references; coordinates are not checked here.
func (f *File) Validate() error {
	for ti, t := range f.Tenants {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("tenant at index %d: id cannot be empty", ti+1)
		}

		locs := make(map[string]struct{}, len(t.Locations))
		for i, l := range t.Locations {
			if strings.TrimSpace(l.ID) == "" {
				return fmt.Errorf("tenant %s: location at index %d: id cannot be empty", t.ID, i+1)
			}
			locs[l.ID] = struct{}{}
		}

		for i, task := range t.Tasks {
			if strings.TrimSpace(task.ID) == "" {
				return fmt.Errorf("tenant %s: task at index %d: id cannot be empty", t.ID, i+1)
			}
			if _, ok := locs[task.LocationID]; !ok {
				return fmt.Errorf("tenant %s: task %s: unknown location %q", t.ID, task.ID, task.LocationID)
			}
		}
	}
	return nil
}

// Coordinates converts nullable lat/lng into domain coordinates; a missing
// component becomes NaN and fails domain validation.
func Coordinates(lat, lng *float64) domain.Coordinates {
	c := domain.Coordinates{Lat: math.NaN(), Lon: math.NaN()}
	if lat != nil {
		c.Lat = *lat
	}
	if lng != nil {
		c.Lon = *lng
	}
	return c
}

func (l Location) ToDomain() domain.Location {
	return domain.Location{ID: l.ID, Name: l.Name, Coordinates: Coordinates(l.Lat, l.Lng)}
}

func (t Task) ToDomain(loc Location) domain.Stop {
	return domain.Stop{
		ID:             t.ID,
		Name:           t.Title,
		Coordinates:    Coordinates(loc.Lat, loc.Lng),
		Priority:       domain.ParsePriority(t.Priority),
		ServiceMinutes: t.ServiceMinutes,
		WeightKg:       t.WeightKg,
	}
}
