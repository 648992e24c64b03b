package services

import (
	"fmt"
	"math"
	"time"

	"route-optimizer-service/internal/domain"
)

const (
	AlgorithmGreedy = "greedy"
	AlgorithmTwoOpt = "two_opt"
)

// Sequencer orders a set of stops into a round trip from start.
// Implementations are pure and safe for concurrent use.
type Sequencer interface {
	Name() string
	Sequence(start domain.Coordinates, stops []domain.Stop, startAt time.Time) (*domain.Route, error)
}

// Physical and economic constants used to derive timings and costs.
type SequencerConfig struct {
	AverageSpeedKmh       float64
	DefaultServiceMinutes int
	FuelLitersPerKm       float64
	FuelPricePerLiter     float64
}

func DefaultSequencerConfig() SequencerConfig {
	return SequencerConfig{
		AverageSpeedKmh:       40,
		DefaultServiceMinutes: 10,
		FuelLitersPerKm:       0.3,
		FuelPricePerLiter:     1.5,
	}
}

func (c SequencerConfig) Validate() error {
	var v domain.ValidationErrors
	if !(c.AverageSpeedKmh > 0) || math.IsInf(c.AverageSpeedKmh, 0) {
		v.Add("average speed must be positive, got %v", c.AverageSpeedKmh)
	}
	if c.DefaultServiceMinutes < 0 {
		v.Add("default service minutes must not be negative, got %d", c.DefaultServiceMinutes)
	}
	if c.FuelLitersPerKm < 0 || c.FuelPricePerLiter < 0 {
		v.Add("fuel consumption and price must not be negative")
	}
	return v.Err()
}

// NewSequencer returns the sequencer registered under name.
func NewSequencer(name string, cfg SequencerConfig) (Sequencer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new sequencer: %w", err)
	}

	switch name {
	case "", AlgorithmGreedy:
		return &GreedySequencer{Config: cfg}, nil
	case AlgorithmTwoOpt:
		return &TwoOptSequencer{Config: cfg}, nil
	default:
		return nil, fmt.Errorf("new sequencer: unknown algorithm %q", name)
	}
}

func (c SequencerConfig) serviceMinutes(s domain.Stop) int {
	if s.ServiceMinutes > 0 {
		return s.ServiceMinutes
	}
	return c.DefaultServiceMinutes
}

func validateSequenceInput(cfg SequencerConfig, start domain.Coordinates, stops []domain.Stop) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := start.Validate(); err != nil {
		return domain.Invalid("start location: %v", err)
	}
	return domain.ValidateStops(stops)
}

// buildRoute walks the stops in the given order, propagating ETAs from startAt,
// and derives the summary. The return leg adds distance and fuel but not
// TotalDurationMinutes.
func (c SequencerConfig) buildRoute(
	start domain.Coordinates,
	ordered []domain.Stop,
	startAt time.Time,
) *domain.Route {
	stops := make([]domain.RouteStop, 0, len(ordered))

	current := start
	currentTime := startAt
	totalKm := 0.0
	totalWeight := 0.0

	for i, s := range ordered {
		km := domain.HaversineKm(current, s.Coordinates)
		travel := domain.TravelMinutes(km, c.AverageSpeedKmh)

		arrive := currentTime.Add(time.Duration(travel) * time.Minute)
		depart := arrive.Add(time.Duration(c.serviceMinutes(s)) * time.Minute)

		totalKm += km
		totalWeight += s.WeightKg

		stops = append(stops, domain.RouteStop{
			Order:                  i + 1,
			Stop:                   s,
			DistanceFromPreviousKm: km,
			CumulativeKm:           totalKm,
			TravelMinutes:          travel,
			ArriveAt:               arrive,
			DepartAt:               depart,
		})

		current = s.Coordinates
		currentTime = depart
	}

	returnKm := domain.HaversineKm(current, start)
	totalKm += returnKm
	returnAt := currentTime.Add(time.Duration(domain.TravelMinutes(returnKm, c.AverageSpeedKmh)) * time.Minute)

	duration := int(currentTime.Sub(startAt) / time.Minute)
	withReturn := int(returnAt.Sub(startAt) / time.Minute)
	liters := totalKm * c.FuelLitersPerKm

	return &domain.Route{
		StartAt: startAt,
		Stops:   stops,
		Summary: domain.RouteSummary{
			TotalStops:                len(stops),
			TotalDistanceKm:           round2(totalKm),
			ReturnLegKm:               round2(returnKm),
			TotalDurationMinutes:      duration,
			TotalDurationHours:        round2(float64(duration) / 60),
			DurationWithReturnMinutes: withReturn,
			DurationWithReturnHours:   round2(float64(withReturn) / 60),
			OptimizationScore:         optimizationScore(stops, totalKm),
			FuelLiters:                round2(liters),
			EstimatedFuelCost:         round2(liters * c.FuelPricePerLiter),
			TotalWeightKg:             round2(totalWeight),
			FinishAt:                  currentTime,
			ReturnAt:                  returnAt,
		},
	}
}

// optimizationScore starts at 100, loses up to 50 points for long average legs
// and gains 10 when an urgent stop is served first. The result is in [0, 100].
func optimizationScore(stops []domain.RouteStop, totalKm float64) int {
	if len(stops) == 0 {
		return 0
	}

	avg := totalKm / float64(len(stops))
	score := 100 - math.Min(avg*2, 50)
	if stops[0].Stop.Priority == domain.PriorityUrgent {
		score += 10
	}

	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
