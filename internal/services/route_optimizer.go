package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/logging"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

type OptimizeRouteRequest struct {
	TenantID        string
	StopIDs         []string
	StartLocationID string
	VehicleID       string
	// Date is YYYY-MM-DD in the optimizer's time zone; empty means today.
	Date string
	// StartAt overrides the default start clock on Date.
	StartAt *time.Time
}

type OptimizerConfig struct {
	TimeZone *time.Location
	// DefaultStartClock is the offset from local midnight used when no StartAt is given.
	DefaultStartClock time.Duration
	ShiftHours        float64
}

func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		TimeZone:          time.UTC,
		DefaultStartClock: 8 * time.Hour,
		ShiftHours:        8,
	}
}

// RouteOptimizer loads tasks, sequences them and persists the resulting route.
// Loads happen before and persistence after the pure sequencing step.
type RouteOptimizer struct {
	locations ports.LocationSource
	routes    ports.RouteStore
	sequencer Sequencer
	cfg       OptimizerConfig

	now     func() time.Time
	newCode func(date time.Time) string
}

func NewRouteOptimizer(
	locations ports.LocationSource,
	routes ports.RouteStore,
	sequencer Sequencer,
	cfg OptimizerConfig,
) *RouteOptimizer {
	if cfg.TimeZone == nil {
		cfg.TimeZone = time.UTC
	}

	return &RouteOptimizer{
		locations: locations,
		routes:    routes,
		sequencer: sequencer,
		cfg:       cfg,
		now:       time.Now,
		newCode:   NewRouteCode,
	}
}

// NewRouteCode returns a code of the form RT-YYYYMMDD-XXXXXXXX.
func NewRouteCode(date time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RT-%s-%s", date.Format("20060102"), suffix)
}

// OptimizeRoute builds and stores a route over the requested tasks.
// Either a complete route is returned or an error; nothing partial is persisted.
func (o *RouteOptimizer) OptimizeRoute(ctx context.Context, req OptimizeRouteRequest) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "routes.OptimizeRoute")(&err)

	stopIDs, err := o.validate(req)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	date, startAt, err := o.anchor(req)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	var (
		start domain.Location
		stops []domain.Stop
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loc, err := o.locations.GetLocation(gctx, req.TenantID, req.StartLocationID)
		if err != nil {
			return fmt.Errorf("load start location %q: %w", req.StartLocationID, err)
		}
		start = loc
		return nil
	})
	g.Go(func() error {
		loaded, err := o.locations.ListStops(gctx, req.TenantID, stopIDs)
		if err != nil {
			return fmt.Errorf("load stops: %w", err)
		}
		stops = loaded
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	ordered, err := inRequestOrder(stopIDs, stops)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	route, err := o.sequencer.Sequence(start.Coordinates, ordered, startAt)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	route.Code = o.newCode(date)
	route.TenantID = req.TenantID
	route.VehicleID = req.VehicleID
	route.Date = date
	route.Start = start
	route.CreatedAt = o.now()
	route.Advisories = Advisories(route, o.cfg.ShiftHours)

	if err := o.routes.SaveRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("optimize route: save %s: %w", route.Code, err)
	}

	logging.LogOperation(logging.FromContext(ctx), "route optimized",
		slog.String("route_code", route.Code),
		slog.String("tenant_id", route.TenantID),
		slog.String("algorithm", route.Algorithm),
		slog.Int("stops", route.Summary.TotalStops),
		slog.Float64("distance_km", route.Summary.TotalDistanceKm),
		slog.Int("score", route.Summary.OptimizationScore),
	)

	return route, nil
}

// GetRoute returns a previously optimized route.
func (o *RouteOptimizer) GetRoute(ctx context.Context, tenantID, code string) (*domain.Route, error) {
	tenantID = strings.TrimSpace(tenantID)
	code = strings.TrimSpace(code)
	if tenantID == "" || code == "" {
		return nil, domain.Invalid("tenant id and route code are required")
	}

	route, err := o.routes.GetRoute(ctx, tenantID, code)
	if err != nil {
		return nil, fmt.Errorf("get route %s: %w", code, err)
	}
	return route, nil
}

// validate returns the trimmed stop ids with duplicates removed, first occurrence kept.
func (o *RouteOptimizer) validate(req OptimizeRouteRequest) ([]string, error) {
	var v domain.ValidationErrors

	if strings.TrimSpace(req.TenantID) == "" {
		v.Add("tenant id is required")
	}
	if strings.TrimSpace(req.StartLocationID) == "" {
		v.Add("start location id is required")
	}
	if strings.TrimSpace(req.VehicleID) == "" {
		v.Add("vehicle id is required")
	}

	ids := lo.Map(req.StopIDs, func(id string, _ int) string { return strings.TrimSpace(id) })
	if lo.Contains(ids, "") {
		v.Add("stop ids must not be blank")
	}
	ids = lo.Uniq(lo.Compact(ids))
	if len(ids) == 0 {
		v.Add("at least one stop id is required")
	}

	return ids, v.Err()
}

// anchor resolves the route date and the nominal start time. Without an
// explicit date the day of StartAt is used, or today when that is absent too.
func (o *RouteOptimizer) anchor(req OptimizeRouteRequest) (time.Time, time.Time, error) {
	tz := o.cfg.TimeZone

	var day time.Time
	if strings.TrimSpace(req.Date) == "" {
		ref := o.now()
		if req.StartAt != nil {
			ref = *req.StartAt
		}
		ref = ref.In(tz)
		day = time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, tz)
	} else {
		d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.Date), tz)
		if err != nil {
			return time.Time{}, time.Time{}, domain.Invalid("date %q must be YYYY-MM-DD", req.Date)
		}
		day = d
	}

	if req.StartAt != nil {
		return day, req.StartAt.In(tz), nil
	}
	return day, day.Add(o.cfg.DefaultStartClock), nil
}

// inRequestOrder aligns loaded stops with the requested id order so ties in
// sequencing are broken by the caller's order.
func inRequestOrder(ids []string, stops []domain.Stop) ([]domain.Stop, error) {
	byID := lo.KeyBy(stops, func(s domain.Stop) string { return s.ID })

	missing := lo.Filter(ids, func(id string, _ int) bool {
		_, ok := byID[id]
		return !ok
	})
	if len(missing) > 0 {
		return nil, &domain.NotFoundError{Resource: "task", IDs: missing}
	}

	return lo.Map(ids, func(id string, _ int) domain.Stop { return byID[id] }), nil
}

// Advisories derives short human-readable notes about a route.
func Advisories(route *domain.Route, shiftHours float64) []string {
	out := []string{}
	if route == nil || len(route.Stops) == 0 {
		return out
	}

	if route.Stops[0].Stop.Priority == domain.PriorityUrgent {
		out = append(out, "Urgent task scheduled first")
	}

	late := 0
	seenLower := false
	for _, rs := range route.Stops {
		if rs.Stop.Priority == domain.PriorityUrgent {
			if seenLower {
				late++
			}
			continue
		}
		seenLower = true
	}
	if late > 0 {
		out = append(out, fmt.Sprintf("%d urgent stop(s) scheduled after lower-priority stops", late))
	}

	if shiftHours > 0 && float64(route.Summary.DurationWithReturnMinutes) > shiftHours*60 {
		out = append(out, fmt.Sprintf("Route exceeds the %g-hour shift", shiftHours))
	}

	legs := route.Summary.TotalDistanceKm - route.Summary.ReturnLegKm
	avgLeg := legs / float64(len(route.Stops))
	if route.Summary.ReturnLegKm > 0 && route.Summary.ReturnLegKm > avgLeg {
		out = append(out, fmt.Sprintf("Return leg of %.2f km is longer than the average stop leg", route.Summary.ReturnLegKm))
	}

	return out
}

// ErrorKind classifies err for transport layers.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case domain.IsInvalidInput(err):
		return "invalid_input"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsUpstream(err), errors.Is(err, context.DeadlineExceeded):
		return "upstream"
	default:
		return "internal"
	}
}
