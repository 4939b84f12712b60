package metrics

import (
	"testing"

	coremetrics "github.com/studyflow/studyflow/core/metrics"
)

type countSink struct {
	plans     int
	fallbacks int
}

func (c *countSink) RecordPlan(coremetrics.PlanEvent) error {
	c.plans++
	return nil
}

func (c *countSink) RecordFallback(coremetrics.FallbackEvent) error {
	c.fallbacks++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &countSink{}
	s2 := &countSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordPlan(coremetrics.PlanEvent{}); err != nil {
		t.Fatalf("record plan: %v", err)
	}
	if err := m.RecordFallback(coremetrics.FallbackEvent{}); err != nil {
		t.Fatalf("record fallback: %v", err)
	}
	if s1.plans != 1 || s2.plans != 1 || s1.fallbacks != 1 || s2.fallbacks != 1 {
		t.Fatalf("events not forwarded: %+v %+v", s1, s2)
	}
}

func TestMultiSinkSkipsNonRecorders(t *testing.T) {
	m := NewMultiSink(coremetrics.NopSink{})
	if err := m.RecordAssignment(coremetrics.AssignmentEvent{}); err != nil {
		t.Fatalf("record assignment: %v", err)
	}
}
