package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Priority indicates how important an assignment is to the student. It is
// advisory only and not consulted by the slot allocation algorithm.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// String returns a human-readable representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParsePriority converts a wire value into a Priority. Unknown or empty
// values map to PriorityMedium.
func ParsePriority(s string) Priority {
	switch strings.ToLower(s) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// MarshalJSON encodes the priority as its string form.
func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON decodes a priority from its string form.
func (p *Priority) UnmarshalJSON(data []byte) error {
	*p = ParsePriority(strings.Trim(string(data), `"`))
	return nil
}

// Assignment represents a piece of work a student must complete by a due
// date. EstimatedHours is the student's effort estimate; the planner clamps
// it to a floor of half an hour before use.
type Assignment struct {
	ID             string    `json:"id,omitempty"`
	UserID         string    `json:"userId,omitempty"`
	Title          string    `json:"title"`
	DueDate        time.Time `json:"dueDate"`
	EstimatedHours float64   `json:"estimatedHours"`
	Priority       Priority  `json:"priority"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// Validate checks that the assignment is well formed enough to plan.
func (a Assignment) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if a.DueDate.IsZero() {
		return fmt.Errorf("dueDate is required")
	}
	return nil
}

// MaxEffortHours caps a single assignment's effort estimate. Anything
// larger is treated as this ceiling, which keeps effort accounting well
// inside integer range.
const MaxEffortHours = 10000

// EffortHours returns the estimated effort after applying the default of
// one hour for a missing estimate, the half-hour floor and the
// MaxEffortHours ceiling.
func (a Assignment) EffortHours() float64 {
	est := a.EstimatedHours
	if est == 0 || math.IsNaN(est) {
		est = 1
	}
	if est < 0.5 {
		est = 0.5
	}
	if est > MaxEffortHours {
		est = MaxEffortHours
	}
	return est
}

// UserProfile carries optional scheduling preferences such as peak hours
// or a timezone. It is accepted by the planner but not yet consulted; it is
// a reserved extension point.
type UserProfile map[string]any
