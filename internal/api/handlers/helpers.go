package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/logging"
	"route-optimizer-service/internal/services"

	"github.com/goccy/go-json"
)

const TenantHeader = "X-Tenant-ID"

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "encode failed", err,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// writeServiceError maps a service error to a status code. Internal errors
// are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger := logging.FromContext(r.Context())

	switch services.ErrorKind(err) {
	case "invalid_input":
		writeError(w, r, http.StatusBadRequest, err.Error())
	case "not_found":
		writeError(w, r, http.StatusNotFound, err.Error())
	case "upstream":
		logging.LogError(logger, op+" failed", err)
		writeError(w, r, http.StatusBadGateway, "upstream unavailable, retry later")
	default:
		logging.LogError(logger, op+" failed", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func tenantID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(TenantHeader))
}
