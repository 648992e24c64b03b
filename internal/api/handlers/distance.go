package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/services"
)

type DistanceHandler struct {
	AverageSpeedKmh float64
}

// Distance answers a point-to-point estimate: GET /v1/distance?lat1=&lng1=&lat2=&lng2=
func (h *DistanceHandler) Distance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var v domain.ValidationErrors
	parse := func(name string) float64 {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			v.Add("%s is required", name)
			return 0
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			v.Add("%s must be a number", name)
			return 0
		}
		return f
	}

	from := domain.Coordinates{Lat: parse("lat1"), Lon: parse("lng1")}
	to := domain.Coordinates{Lat: parse("lat2"), Lon: parse("lng2")}
	if err := v.Err(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	est, err := services.CalculateDistance(from, to, h.AverageSpeedKmh)
	if err != nil {
		writeServiceError(w, r, "calculate distance", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{
		DistanceKm: est.DistanceKm,
		ETAMinutes: est.ETAMinutes,
	})
}
