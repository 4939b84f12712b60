package planner

import (
	"context"
	"time"

	"github.com/studyflow/studyflow/core/events"
	"github.com/studyflow/studyflow/core/logger"
	"github.com/studyflow/studyflow/core/metrics"
	"github.com/studyflow/studyflow/core/model"
)

// Backend produces a plan from an external generative source. It is
// untrusted and may fail, time out, or return garbage; implementations must
// return an error whenever a well-shaped plan cannot be extracted.
type Backend interface {
	GeneratePlan(ctx context.Context, assignment model.Assignment, commitments []time.Time) (*model.Plan, error)
}

// maxBackendCommitments bounds the context sent to the backend.
const maxBackendCommitments = 20

// Service decides between the external backend and the deterministic
// heuristic. Every failure path terminates in the heuristic, so Plan never
// returns an error: callers always receive a structurally valid Plan.
//
// A well-shaped backend plan is returned as-is, without re-checking the
// numeric invariants the heuristic guarantees. That trust boundary is
// deliberate and documented at the API layer.
type Service struct {
	heuristic Heuristic
	backend   Backend
	sink      metrics.MetricsSink
	pub       events.Publisher
	log       logger.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithBackend installs an external planning backend. A nil backend leaves
// the service purely heuristic.
func WithBackend(b Backend) Option {
	return func(s *Service) { s.backend = b }
}

// WithMetrics installs a metrics sink for planning events.
func WithMetrics(sink metrics.MetricsSink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithEvents publishes a PlanGenerated event after each call.
func WithEvents(pub events.Publisher) Option {
	return func(s *Service) { s.pub = pub }
}

// WithClock overrides the wall clock, used by tests for determinism.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a planning Service.
func New(log logger.Logger, opts ...Option) *Service {
	s := &Service{
		sink: metrics.NopSink{},
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan attempts the external backend when one is configured and falls back
// to the heuristic on any error. The wall clock is read once per call.
func (s *Service) Plan(ctx context.Context, req Request) model.Plan {
	now := s.now()

	if s.backend != nil {
		commitments := req.Commitments
		if len(commitments) > maxBackendCommitments {
			commitments = commitments[:maxBackendCommitments]
		}
		start := time.Now()
		plan, err := s.backend.GeneratePlan(ctx, req.Assignment, commitments)
		latency := time.Since(start)
		if err == nil && plan != nil {
			s.record(metrics.PlanEvent{
				Source:         metrics.SourceBackend,
				AssignmentID:   req.Assignment.ID,
				Slots:          len(plan.Slots),
				PlannedHours:   plan.PlannedHours(),
				RemainingHours: plan.RemainingHours,
				Latency:        latency,
				Time:           now,
			})
			s.publish(events.PlanGenerated{
				AssignmentID: req.Assignment.ID,
				Source:       metrics.SourceBackend,
				Plan:         *plan,
				Latency:      latency,
				Time:         now,
			})
			return *plan
		}
		s.log.Warnf("backend planning failed, falling back to heuristic: %v", err)
		s.recordFallback(metrics.FallbackEvent{Reason: fallbackReason(ctx, err), Time: now})
	}

	plan := s.heuristic.Plan(req, now)
	s.record(metrics.PlanEvent{
		Source:         metrics.SourceHeuristic,
		AssignmentID:   req.Assignment.ID,
		Slots:          len(plan.Slots),
		PlannedHours:   plan.PlannedHours(),
		RemainingHours: plan.RemainingHours,
		Time:           now,
	})
	s.publish(events.PlanGenerated{
		AssignmentID: req.Assignment.ID,
		Source:       metrics.SourceHeuristic,
		Plan:         plan,
		Time:         now,
	})
	return plan
}

func (s *Service) publish(ev events.PlanGenerated) {
	if s.pub != nil {
		s.pub.Publish(ev)
	}
}

func (s *Service) record(ev metrics.PlanEvent) {
	if err := s.sink.RecordPlan(ev); err != nil {
		s.log.Errorf("record plan event: %v", err)
	}
}

func (s *Service) recordFallback(ev metrics.FallbackEvent) {
	rec, ok := s.sink.(metrics.FallbackRecorder)
	if !ok {
		return
	}
	if err := rec.RecordFallback(ev); err != nil {
		s.log.Errorf("record fallback event: %v", err)
	}
}

func fallbackReason(ctx context.Context, err error) string {
	switch {
	case ctx.Err() != nil:
		return "timeout"
	case err != nil:
		return "backend_error"
	default:
		return "no_result"
	}
}
