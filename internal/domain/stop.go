package domain

import "strings"

// Priority tier of a delivery task.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// ParsePriority normalizes a stored priority value. Empty input maps to normal;
// unknown values are kept as-is and weigh like normal.
func ParsePriority(s string) Priority {
	p := strings.ToLower(strings.TrimSpace(s))
	if p == "" {
		return PriorityNormal
	}
	return Priority(p)
}

// Multiplier biases the nearest-neighbor selection toward higher tiers.
func (p Priority) Multiplier() float64 {
	switch p {
	case PriorityUrgent:
		return 0.5
	case PriorityHigh:
		return 0.7
	default:
		return 1.0
	}
}

// Location is a named point such as a depot that routes start from and return to.
type Location struct {
	ID          string
	Name        string
	Coordinates Coordinates
}

// Represents a single delivery task bound to a geolocated stop.
// ServiceMinutes <= 0 means the task does not specify its own service time.
type Stop struct {
	ID             string
	Name           string
	Coordinates    Coordinates
	Priority       Priority
	ServiceMinutes int
	WeightKg       float64
}
