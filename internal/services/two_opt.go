package services

import (
	"fmt"
	"time"

	"route-optimizer-service/internal/domain"
)

const defaultTwoOptPasses = 50

// TwoOptSequencer refines the greedy order with 2-opt segment reversals.
//
// Reversals are accepted only when they shorten the closed tour, so the
// result is never longer than the greedy route. Priority is considered only
// through the greedy seed.
type TwoOptSequencer struct {
	Config SequencerConfig
	// MaxPasses bounds the number of improvement sweeps; zero uses the default.
	MaxPasses int
}

func (s *TwoOptSequencer) Name() string { return AlgorithmTwoOpt }

func (s *TwoOptSequencer) Sequence(
	start domain.Coordinates,
	stops []domain.Stop,
	startAt time.Time,
) (*domain.Route, error) {
	if err := validateSequenceInput(s.Config, start, stops); err != nil {
		return nil, fmt.Errorf("two-opt sequence: %w", err)
	}

	seed := nearestNeighborOrder(start, stops)

	passes := s.MaxPasses
	if passes <= 0 {
		passes = defaultTwoOptPasses
	}

	route := s.Config.buildRoute(start, improveTwoOpt(start, seed, passes), startAt)
	route.Algorithm = s.Name()
	return route, nil
}

// improveTwoOpt works on the closed tour start -> stops... -> start.
// Position 0 of the distance matrix is the start location.
func improveTwoOpt(start domain.Coordinates, stops []domain.Stop, passes int) []domain.Stop {
	n := len(stops)
	if n < 3 {
		return stops
	}

	points := make([]domain.Coordinates, 0, n+1)
	points = append(points, start)
	for _, st := range stops {
		points = append(points, st.Coordinates)
	}

	dist := make([][]float64, n+1)
	for i := range dist {
		dist[i] = make([]float64, n+1)
		for j := range dist[i] {
			dist[i][j] = domain.HaversineKm(points[i], points[j])
		}
	}

	// tour[k] is a matrix index; tour[0] and tour[n+1] are the start.
	tour := make([]int, n+2)
	for i := 1; i <= n; i++ {
		tour[i] = i
	}

	const eps = 1e-9
	for pass := 0; pass < passes; pass++ {
		improved := false
		for i := 1; i < n; i++ {
			for k := i + 1; k <= n; k++ {
				a, b := tour[i-1], tour[i]
				c, d := tour[k], tour[k+1]
				delta := dist[a][c] + dist[b][d] - dist[a][b] - dist[c][d]
				if delta < -eps {
					for l, r := i, k; l < r; l, r = l+1, r-1 {
						tour[l], tour[r] = tour[r], tour[l]
					}
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}

	out := make([]domain.Stop, 0, n)
	for _, idx := range tour[1 : n+1] {
		out = append(out, stops[idx-1])
	}
	return out
}
