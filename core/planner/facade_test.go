package planner

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/studyflow/studyflow/core/events"
	"github.com/studyflow/studyflow/core/metrics"
	"github.com/studyflow/studyflow/core/model"
	"github.com/studyflow/studyflow/infra/logger"
)

type stubBackend struct {
	plan        *model.Plan
	err         error
	commitments []time.Time
	calls       int
}

func (b *stubBackend) GeneratePlan(ctx context.Context, a model.Assignment, commitments []time.Time) (*model.Plan, error) {
	b.calls++
	b.commitments = commitments
	return b.plan, b.err
}

type recordSink struct {
	plans     []metrics.PlanEvent
	fallbacks []metrics.FallbackEvent
}

func (r *recordSink) RecordPlan(ev metrics.PlanEvent) error {
	r.plans = append(r.plans, ev)
	return nil
}

func (r *recordSink) RecordFallback(ev metrics.FallbackEvent) error {
	r.fallbacks = append(r.fallbacks, ev)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestServiceWithoutBackendMatchesHeuristic(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Essay", now.AddDate(0, 0, 3), 2)

	svc := New(logger.NopLogger{}, WithClock(fixedClock(now)))
	got := svc.Plan(context.Background(), req)
	want := Heuristic{}.Plan(req, now)

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("facade without backend diverged from heuristic:\n got %+v\nwant %+v", got, want)
	}
}

func TestServiceBackendErrorFallsBack(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Essay", now.AddDate(0, 0, 3), 2)
	backend := &stubBackend{err: errors.New("connection refused")}
	sink := &recordSink{}

	svc := New(logger.NopLogger{}, WithBackend(backend), WithMetrics(sink), WithClock(fixedClock(now)))
	got := svc.Plan(context.Background(), req)
	want := Heuristic{}.Plan(req, now)

	if backend.calls != 1 {
		t.Fatalf("expected one backend attempt got %d", backend.calls)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fallback output diverged from heuristic")
	}
	if len(sink.fallbacks) != 1 || sink.fallbacks[0].Reason != "backend_error" {
		t.Fatalf("expected one backend_error fallback got %+v", sink.fallbacks)
	}
	if len(sink.plans) != 1 || sink.plans[0].Source != metrics.SourceHeuristic {
		t.Fatalf("expected one heuristic plan event got %+v", sink.plans)
	}
}

func TestServiceBackendPlanReturnedAsIs(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Essay", now.AddDate(0, 0, 3), 2)
	// Shaped but numerically off: the facade does not re-validate.
	external := &model.Plan{
		Slots: []model.TimeSlot{{Start: now.Add(26 * time.Hour), DurationHours: 3, Note: "deep work"}},
		Note:  "external plan",
	}
	backend := &stubBackend{plan: external}
	sink := &recordSink{}

	svc := New(logger.NopLogger{}, WithBackend(backend), WithMetrics(sink), WithClock(fixedClock(now)))
	got := svc.Plan(context.Background(), req)

	if !reflect.DeepEqual(got, *external) {
		t.Fatalf("backend plan was altered: %+v", got)
	}
	if len(sink.plans) != 1 || sink.plans[0].Source != metrics.SourceBackend {
		t.Fatalf("expected one backend plan event got %+v", sink.plans)
	}
	if len(sink.fallbacks) != 0 {
		t.Fatalf("unexpected fallback events %+v", sink.fallbacks)
	}
}

func TestServiceBackendNoResultFallsBack(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Essay", now.AddDate(0, 0, 3), 2)
	backend := &stubBackend{}
	sink := &recordSink{}

	svc := New(logger.NopLogger{}, WithBackend(backend), WithMetrics(sink), WithClock(fixedClock(now)))
	got := svc.Plan(context.Background(), req)

	if got.Note != noteSuccess {
		t.Fatalf("expected heuristic result got %+v", got)
	}
	if len(sink.fallbacks) != 1 || sink.fallbacks[0].Reason != "no_result" {
		t.Fatalf("expected no_result fallback got %+v", sink.fallbacks)
	}
}

func TestServiceBoundsBackendCommitments(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Essay", now.AddDate(0, 0, 3), 2)
	for i := 0; i < 35; i++ {
		req.Commitments = append(req.Commitments, now.Add(time.Duration(i)*time.Hour))
	}
	backend := &stubBackend{plan: &model.Plan{Note: "ok"}}

	svc := New(logger.NopLogger{}, WithBackend(backend), WithClock(fixedClock(now)))
	svc.Plan(context.Background(), req)

	if len(backend.commitments) != maxBackendCommitments {
		t.Fatalf("expected %d commitments sent got %d", maxBackendCommitments, len(backend.commitments))
	}
}

func TestServiceCanceledContextFallsBack(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Essay", now.AddDate(0, 0, 3), 2)
	backend := &stubBackend{err: context.DeadlineExceeded}
	sink := &recordSink{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := New(logger.NopLogger{}, WithBackend(backend), WithMetrics(sink), WithClock(fixedClock(now)))
	got := svc.Plan(ctx, req)

	if got.Note != noteSuccess {
		t.Fatalf("expected heuristic plan got %+v", got)
	}
	if len(sink.fallbacks) != 1 || sink.fallbacks[0].Reason != "timeout" {
		t.Fatalf("expected timeout fallback got %+v", sink.fallbacks)
	}
}

type recordPublisher struct {
	published []any
}

func (r *recordPublisher) Publish(e any) { r.published = append(r.published, e) }

func TestServicePublishesPlanEvents(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Essay", now.AddDate(0, 0, 3), 2)
	pub := &recordPublisher{}

	svc := New(logger.NopLogger{}, WithClock(fixedClock(now)), WithEvents(pub))
	plan := svc.Plan(context.Background(), req)

	if len(pub.published) != 1 {
		t.Fatalf("expected one event got %d", len(pub.published))
	}
	ev, ok := pub.published[0].(events.PlanGenerated)
	if !ok {
		t.Fatalf("unexpected event type %T", pub.published[0])
	}
	if ev.Source != metrics.SourceHeuristic {
		t.Fatalf("expected heuristic source got %q", ev.Source)
	}
	if !reflect.DeepEqual(ev.Plan, plan) {
		t.Fatal("published plan diverged from returned plan")
	}
}
