package domain

import "time"

// Represents a single visit in an optimized route.
// DistanceFromPreviousKm and CumulativeKm keep full precision; rounding is a
// presentation concern.
type RouteStop struct {
	Order                  int
	Stop                   Stop
	DistanceFromPreviousKm float64
	CumulativeKm           float64
	TravelMinutes          int
	ArriveAt               time.Time
	DepartAt               time.Time
}

// Aggregate metrics of a route.
//
// TotalDurationMinutes runs from the start time to the last departure and
// excludes the return leg, while TotalDistanceKm includes it.
// DurationWithReturnMinutes adds the return leg travel time.
type RouteSummary struct {
	TotalStops                int
	TotalDistanceKm           float64
	ReturnLegKm               float64
	TotalDurationMinutes      int
	TotalDurationHours        float64
	DurationWithReturnMinutes int
	DurationWithReturnHours   float64
	OptimizationScore         int
	FuelLiters                float64
	EstimatedFuelCost         float64
	TotalWeightKg             float64
	FinishAt                  time.Time
	ReturnAt                  time.Time
}

// Represents the planned visiting order for one vehicle on one day.
// A Route is built once per optimization request and never mutated afterward.
type Route struct {
	Code       string
	TenantID   string
	VehicleID  string
	Date       time.Time
	Start      Location
	StartAt    time.Time
	Stops      []RouteStop
	Summary    RouteSummary
	Advisories []string
	Algorithm  string
	CreatedAt  time.Time
}
