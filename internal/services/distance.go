package services

import (
	"route-optimizer-service/internal/domain"
)

// Great-circle distance and driving time between two points.
type DistanceEstimate struct {
	DistanceKm float64
	ETAMinutes int
}

// CalculateDistance returns the point-to-point distance rounded to two
// decimals and the travel time at averageSpeedKmh, rounded up to a minute.
func CalculateDistance(from, to domain.Coordinates, averageSpeedKmh float64) (DistanceEstimate, error) {
	var v domain.ValidationErrors
	if err := from.Validate(); err != nil {
		v.Add("from: %v", err)
	}
	if err := to.Validate(); err != nil {
		v.Add("to: %v", err)
	}
	if !(averageSpeedKmh > 0) {
		v.Add("average speed must be positive, got %v", averageSpeedKmh)
	}
	if err := v.Err(); err != nil {
		return DistanceEstimate{}, err
	}

	km := domain.HaversineKm(from, to)
	return DistanceEstimate{
		DistanceKm: round2(km),
		ETAMinutes: domain.TravelMinutes(km, averageSpeedKmh),
	}, nil
}
