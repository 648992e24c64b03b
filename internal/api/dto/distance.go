package dto

type DistanceResponse struct {
	DistanceKm float64 `json:"distance_km"`
	ETAMinutes int     `json:"eta_minutes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
