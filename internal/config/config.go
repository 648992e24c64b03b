package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port        string
	DatabaseURL string
	// RedisURL enables the location cache when set.
	RedisURL string
	Store    string
	SeedPath string

	TimeZone *time.Location
	// DefaultStartClock is the time of day routes start when the request has no start_at.
	DefaultStartClock time.Duration
	Sequencer         string
	ShiftHours        float64
	AverageSpeedKmh   float64
	FuelPricePerLiter float64

	LocationCacheTTL time.Duration
	LogLevel         string
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the service configuration from the environment.
// All problems are reported together.
func Load() (Config, error) {
	var errs *multierror.Error

	cfg := Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: Get("DATABASE_URL", ""),
		RedisURL:    Get("REDIS_URL", ""),
		Store:       strings.ToLower(Get("STORE", StorePostgres)),
		SeedPath:    Get("SEED_PATH", "data/seeds/dispatch.json"),
		Sequencer:   strings.ToLower(Get("SEQUENCER", "greedy")),
		LogLevel:    Get("LOG_LEVEL", "info"),
	}

	tzName := Get("TIME_ZONE", "UTC")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("TIME_ZONE %q: %w", tzName, err))
	}
	cfg.TimeZone = tz

	clock, err := ParseClock(Get("DEFAULT_START_TIME", "08:00"))
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("DEFAULT_START_TIME: %w", err))
	}
	cfg.DefaultStartClock = clock

	if cfg.ShiftHours, err = getFloat("SHIFT_HOURS", 8); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.AverageSpeedKmh, err = getFloat("AVERAGE_SPEED_KMH", 40); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.FuelPricePerLiter, err = getFloat("FUEL_PRICE_PER_LITER", 1.5); err != nil {
		errs = multierror.Append(errs, err)
	}

	ttl, err := time.ParseDuration(Get("LOCATION_CACHE_TTL", "10m"))
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("LOCATION_CACHE_TTL: %w", err))
	}
	cfg.LocationCacheTTL = ttl

	if err := cfg.validate(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs *multierror.Error

	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = multierror.Append(errs, fmt.Errorf("DATABASE_URL is required when STORE=%s", StorePostgres))
		}
	case StoreMemory:
	default:
		errs = multierror.Append(errs, fmt.Errorf("STORE must be %s or %s, got %q", StorePostgres, StoreMemory, c.Store))
	}

	switch c.Sequencer {
	case "greedy", "two_opt":
	default:
		errs = multierror.Append(errs, fmt.Errorf("SEQUENCER must be greedy or two_opt, got %q", c.Sequencer))
	}

	if c.ShiftHours <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("SHIFT_HOURS must be positive"))
	}
	if c.AverageSpeedKmh <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("AVERAGE_SPEED_KMH must be positive"))
	}
	if c.FuelPricePerLiter < 0 {
		errs = multierror.Append(errs, fmt.Errorf("FUEL_PRICE_PER_LITER must not be negative"))
	}
	if c.LocationCacheTTL < 0 {
		errs = multierror.Append(errs, fmt.Errorf("LOCATION_CACHE_TTL must not be negative"))
	}

	return errs.ErrorOrNil()
}

// ParseClock turns "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("clock %q must be HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", key, raw)
	}
	return v, nil
}
