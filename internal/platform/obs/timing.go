package obs

import (
	"context"
	"log/slog"
	"time"

	"route-optimizer-service/internal/logging"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores the request id used to correlate operation logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time starts a timer for op and returns a func that logs its duration and,
// when *errp is non-nil, the error. Intended for use with defer.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	logger := logging.FromContext(ctx)
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)
		attrs := []any{
			slog.String("req_id", reqID),
			slog.String("op", name),
			slog.Int64("dur_ms", dur.Milliseconds()),
		}

		if errp != nil && *errp != nil {
			logger.Warn("operation failed", append(attrs, slog.String("error", (*errp).Error()))...)
			return
		}
		logger.Debug("operation finished", attrs...)
	}
}
