package handlers

import (
	"context"
	"io"
	"net/http"

	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/services"

	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
)

const maxBodyBytes = 1 << 20

// RouteService is the part of the optimizer the HTTP layer depends on.
type RouteService interface {
	OptimizeRoute(ctx context.Context, req services.OptimizeRouteRequest) (*domain.Route, error)
	GetRoute(ctx context.Context, tenantID, code string) (*domain.Route, error)
}

type RouteHandler struct {
	Routes RouteService
}

// Optimize sequences the requested tasks for one vehicle and stores the route.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		writeError(w, r, http.StatusBadRequest, TenantHeader+" header is required")
		return
	}

	var req dto.OptimizeRouteRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	route, err := h.Routes.OptimizeRoute(r.Context(), services.OptimizeRouteRequest{
		TenantID:        tenant,
		StopIDs:         req.StopIDs,
		StartLocationID: req.StartLocationID,
		VehicleID:       req.VehicleID,
		Date:            req.Date,
		StartAt:         req.StartAt,
	})
	if err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(route))
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant := tenantID(r)
	if tenant == "" {
		writeError(w, r, http.StatusBadRequest, TenantHeader+" header is required")
		return
	}

	code := httprouter.ParamsFromContext(r.Context()).ByName("code")

	route, err := h.Routes.GetRoute(r.Context(), tenant, code)
	if err != nil {
		writeServiceError(w, r, "get route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(route))
}
