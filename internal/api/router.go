package api

import (
	"log/slog"
	"net/http"

	"route-optimizer-service/internal/api/handlers"

	"github.com/julienschmidt/httprouter"
)

type Deps struct {
	Routes          handlers.RouteService
	DB              handlers.Pinger
	AverageSpeedKmh float64
	Logger          *slog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := httprouter.New()

	healthHandler := &handlers.HealthHandler{DB: deps.DB}
	routeHandler := &handlers.RouteHandler{Routes: deps.Routes}
	distanceHandler := &handlers.DistanceHandler{AverageSpeedKmh: deps.AverageSpeedKmh}

	router.HandlerFunc(http.MethodGet, "/health", healthHandler.Health)
	router.HandlerFunc(http.MethodPost, "/v1/routes/optimize", routeHandler.Optimize)
	router.HandlerFunc(http.MethodGet, "/v1/routes/:code", routeHandler.Get)
	router.HandlerFunc(http.MethodGet, "/v1/distance", distanceHandler.Distance)

	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"method not allowed"}` + "\n"))
	})
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	})

	return requestContextMiddleware(logger, loggingMiddleware(compressionMiddleware(router)))
}
