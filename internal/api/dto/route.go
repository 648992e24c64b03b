package dto

import (
	"math"
	"time"

	"route-optimizer-service/internal/domain"
)

type OptimizeRouteRequest struct {
	StopIDs         []string   `json:"stop_ids"`
	StartLocationID string     `json:"start_location_id"`
	VehicleID       string     `json:"vehicle_id"`
	Date            string     `json:"date"`
	StartAt         *time.Time `json:"start_at"`
}

type LocationResponse struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type RouteStopResponse struct {
	Order                  int       `json:"order"`
	TaskID                 string    `json:"task_id"`
	Name                   string    `json:"name"`
	Lat                    float64   `json:"lat"`
	Lng                    float64   `json:"lng"`
	Priority               string    `json:"priority"`
	ServiceMinutes         int       `json:"service_minutes"`
	WeightKg               float64   `json:"weight_kg"`
	DistanceFromPreviousKm float64   `json:"distance_from_previous_km"`
	CumulativeDistanceKm   float64   `json:"cumulative_distance_km"`
	TravelMinutes          int       `json:"travel_minutes"`
	EstimatedArrival       time.Time `json:"estimated_arrival"`
	EstimatedDeparture     time.Time `json:"estimated_departure"`
}

type RouteSummaryResponse struct {
	TotalStops                int       `json:"total_stops"`
	TotalDistanceKm           float64   `json:"total_distance_km"`
	ReturnLegKm               float64   `json:"return_leg_km"`
	TotalDurationMinutes      int       `json:"total_duration_minutes"`
	TotalDurationHours        float64   `json:"total_duration_hours"`
	DurationWithReturnMinutes int       `json:"duration_with_return_minutes"`
	DurationWithReturnHours   float64   `json:"duration_with_return_hours"`
	OptimizationScore         int       `json:"optimization_score"`
	FuelLiters                float64   `json:"fuel_liters"`
	EstimatedFuelCost         float64   `json:"estimated_fuel_cost"`
	TotalWeightKg             float64   `json:"total_weight_kg"`
	EstimatedFinish           time.Time `json:"estimated_finish"`
	EstimatedReturn           time.Time `json:"estimated_return"`
}

type RouteResponse struct {
	RouteCode     string               `json:"route_code"`
	VehicleID     string               `json:"vehicle_id"`
	Date          string               `json:"date"`
	Algorithm     string               `json:"algorithm"`
	StartLocation LocationResponse     `json:"start_location"`
	StartAt       time.Time            `json:"start_at"`
	Stops         []RouteStopResponse  `json:"stops"`
	Summary       RouteSummaryResponse `json:"summary"`
	Advisories    []string             `json:"advisories"`
	CreatedAt     time.Time            `json:"created_at"`
}

// NewRouteResponse renders a route; per-stop distances are rounded here only.
func NewRouteResponse(r *domain.Route) RouteResponse {
	stops := make([]RouteStopResponse, 0, len(r.Stops))
	for _, rs := range r.Stops {
		stops = append(stops, RouteStopResponse{
			Order:                  rs.Order,
			TaskID:                 rs.Stop.ID,
			Name:                   rs.Stop.Name,
			Lat:                    rs.Stop.Coordinates.Lat,
			Lng:                    rs.Stop.Coordinates.Lon,
			Priority:               string(rs.Stop.Priority),
			ServiceMinutes:         rs.Stop.ServiceMinutes,
			WeightKg:               rs.Stop.WeightKg,
			DistanceFromPreviousKm: round2(rs.DistanceFromPreviousKm),
			CumulativeDistanceKm:   round2(rs.CumulativeKm),
			TravelMinutes:          rs.TravelMinutes,
			EstimatedArrival:       rs.ArriveAt,
			EstimatedDeparture:     rs.DepartAt,
		})
	}

	advisories := r.Advisories
	if advisories == nil {
		advisories = []string{}
	}

	s := r.Summary
	return RouteResponse{
		RouteCode: r.Code,
		VehicleID: r.VehicleID,
		Date:      r.Date.Format("2006-01-02"),
		Algorithm: r.Algorithm,
		StartLocation: LocationResponse{
			ID:   r.Start.ID,
			Name: r.Start.Name,
			Lat:  r.Start.Coordinates.Lat,
			Lng:  r.Start.Coordinates.Lon,
		},
		StartAt: r.StartAt,
		Stops:   stops,
		Summary: RouteSummaryResponse{
			TotalStops:                s.TotalStops,
			TotalDistanceKm:           s.TotalDistanceKm,
			ReturnLegKm:               s.ReturnLegKm,
			TotalDurationMinutes:      s.TotalDurationMinutes,
			TotalDurationHours:        s.TotalDurationHours,
			DurationWithReturnMinutes: s.DurationWithReturnMinutes,
			DurationWithReturnHours:   s.DurationWithReturnHours,
			OptimizationScore:         s.OptimizationScore,
			FuelLiters:                s.FuelLiters,
			EstimatedFuelCost:         s.EstimatedFuelCost,
			TotalWeightKg:             s.TotalWeightKg,
			EstimatedFinish:           s.FinishAt,
			EstimatedReturn:           s.ReturnAt,
		},
		Advisories: advisories,
		CreatedAt:  r.CreatedAt,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
