package services

import (
	"fmt"
	"math"
	"time"

	"route-optimizer-service/internal/domain"
)

// GreedySequencer plans a round trip using a priority-weighted nearest-neighbor walk.
//
// At each step the unvisited stop with the smallest distance × priority
// multiplier is chosen. The multiplier only biases selection toward urgent
// work; it does not guarantee priority ordering. Equal scores keep input order.
type GreedySequencer struct {
	Config SequencerConfig
}

func (g *GreedySequencer) Name() string { return AlgorithmGreedy }

func (g *GreedySequencer) Sequence(
	start domain.Coordinates,
	stops []domain.Stop,
	startAt time.Time,
) (*domain.Route, error) {
	if err := validateSequenceInput(g.Config, start, stops); err != nil {
		return nil, fmt.Errorf("greedy sequence: %w", err)
	}

	route := g.Config.buildRoute(start, nearestNeighborOrder(start, stops), startAt)
	route.Algorithm = g.Name()
	return route, nil
}

func nearestNeighborOrder(start domain.Coordinates, stops []domain.Stop) []domain.Stop {
	visited := make([]bool, len(stops))
	ordered := make([]domain.Stop, 0, len(stops))
	current := start

	for len(ordered) < len(stops) {
		best := -1
		bestAdjusted := math.Inf(1)

		// Strict comparison keeps the earliest stop on ties.
		for i, s := range stops {
			if visited[i] {
				continue
			}
			adjusted := domain.HaversineKm(current, s.Coordinates) * s.Priority.Multiplier()
			if adjusted < bestAdjusted {
				best = i
				bestAdjusted = adjusted
			}
		}

		visited[best] = true
		ordered = append(ordered, stops[best])
		current = stops[best].Coordinates
	}

	return ordered
}
