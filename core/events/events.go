package events

import (
	"time"

	"github.com/studyflow/studyflow/core/model"
)

// Publisher delivers domain events to subscribers. The event bus satisfies
// it; components needing publication accept this interface instead of a
// concrete bus.
type Publisher interface {
	Publish(e any)
}

// AssignmentCreated is published when a new assignment is persisted.
type AssignmentCreated struct {
	Assignment model.Assignment
	Time       time.Time
}

// PlanGenerated is published when a planning call completes. Source is
// "heuristic" or "backend".
type PlanGenerated struct {
	AssignmentID string
	Source       string
	Plan         model.Plan
	Latency      time.Duration
	Time         time.Time
}
