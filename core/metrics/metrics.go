package metrics

import "time"

// Plan sources.
const (
	SourceHeuristic = "heuristic"
	SourceBackend   = "backend"
)

// PlanEvent represents a completed planning call to be recorded.
type PlanEvent struct {
	Source         string
	AssignmentID   string
	Slots          int
	PlannedHours   float64
	RemainingHours float64
	Latency        time.Duration
	Time           time.Time
}

// Outcome labels the event as complete or partial depending on leftover
// effort.
func (e PlanEvent) Outcome() string {
	if e.RemainingHours > 0 {
		return "partial"
	}
	return "complete"
}

// MetricsSink records planning events for observability purposes.
type MetricsSink interface {
	RecordPlan(ev PlanEvent) error
}

// FallbackEvent captures a discarded backend planning attempt.
type FallbackEvent struct {
	Reason string
	Time   time.Time
}

// FallbackRecorder records backend fallback events.
type FallbackRecorder interface {
	RecordFallback(ev FallbackEvent) error
}

// AssignmentEvent captures a newly persisted assignment.
type AssignmentEvent struct {
	AssignmentID   string
	Priority       string
	EstimatedHours float64
	Time           time.Time
}

// AssignmentRecorder records assignment creation events.
type AssignmentRecorder interface {
	RecordAssignment(ev AssignmentEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error             { return nil }
func (NopSink) RecordFallback(FallbackEvent) error     { return nil }
func (NopSink) RecordAssignment(AssignmentEvent) error { return nil }
