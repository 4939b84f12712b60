package metrics

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/studyflow/studyflow/core/metrics"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	plans       *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	assignments *prometheus.CounterVec
	latency     prometheus.Histogram
}

// NewPromSink registers planning metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plans_total",
		Help: "Total number of planning calls",
	}, []string{"source", "outcome"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_fallback_total",
		Help: "Total number of discarded backend planning attempts",
	}, []string{"reason"})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignments_total",
		Help: "Total number of assignments created",
	}, []string{"priority"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "backend_latency_seconds",
		Help:    "Latency of external planning backend calls",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(plans); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			plans = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fallbacks); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fallbacks = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{plans: plans, fallbacks: fallbacks, assignments: assignments, latency: latency}, nil
}

// RecordPlan increments the plan counter and observes backend latency.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(ev.Source, ev.Outcome()).Inc()
	if ev.Source == coremetrics.SourceBackend && ev.Latency > 0 {
		s.latency.Observe(ev.Latency.Seconds())
	}
	return nil
}

// RecordFallback increments the fallback counter.
func (s *PromSink) RecordFallback(ev coremetrics.FallbackEvent) error {
	s.fallbacks.WithLabelValues(ev.Reason).Inc()
	return nil
}

// RecordAssignment increments the assignment counter.
func (s *PromSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	s.assignments.WithLabelValues(ev.Priority).Inc()
	return nil
}

// StartPromServer starts an HTTP server exposing Prometheus metrics on the
// given address. The server runs until the provided context is canceled.
// A dedicated ServeMux is used to avoid interfering with other handlers.
func StartPromServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("prom server shutdown: %v", err)
		}
		cancel()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
