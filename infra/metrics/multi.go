package metrics

import coremetrics "github.com/studyflow/studyflow/core/metrics"

// MultiSink fans planning events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPlan(ev coremetrics.PlanEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlan(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordAssignment forwards assignment events to sinks that record them.
func (m *MultiSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.AssignmentRecorder); ok {
			if err := rec.RecordAssignment(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFallback forwards fallback events to sinks that record them.
func (m *MultiSink) RecordFallback(ev coremetrics.FallbackEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.FallbackRecorder); ok {
			if err := rec.RecordFallback(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
