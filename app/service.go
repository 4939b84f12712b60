// Package app assembles the configured components into a running service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/studyflow/studyflow/api"
	"github.com/studyflow/studyflow/auth"
	"github.com/studyflow/studyflow/config"
	coremetrics "github.com/studyflow/studyflow/core/metrics"
	"github.com/studyflow/studyflow/core/planner"
	"github.com/studyflow/studyflow/infra/ai"
	"github.com/studyflow/studyflow/infra/logger"
	"github.com/studyflow/studyflow/infra/metrics"
	"github.com/studyflow/studyflow/infra/notify"
	"github.com/studyflow/studyflow/internal/eventbus"
	"github.com/studyflow/studyflow/jobs/reminder"
	"github.com/studyflow/studyflow/storage"
)

// Service orchestrates the HTTP API, metrics sinks and background jobs.
type Service struct {
	cfg      *config.Config
	server   *http.Server
	bus      *eventbus.Bus
	sink     coremetrics.MetricsSink
	job      *reminder.Job
	notifier *notify.MQTTPublisher
	log      logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	store, err := storage.New(cfg.Store.Dir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.Prometheus.Enabled {
		sink, err := metrics.NewPromSink(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.Influx.Enabled() {
		in := cfg.Metrics.Influx
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(in.URL, in.Token, in.Org, in.Bucket))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()

	opts := []planner.Option{planner.WithMetrics(sink), planner.WithEvents(bus)}
	if cfg.AI.Enabled() {
		opts = append(opts, planner.WithBackend(ai.NewClient(cfg.AI)))
	}
	pl := planner.New(logger.New("planner"), opts...)

	am := auth.NewManager(cfg.Auth)
	srv := api.New(store, pl, am, bus, logger.New("api"))

	svc := &Service{
		cfg: cfg,
		server: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      srv.Handler(),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		},
		bus:  bus,
		sink: sink,
		log:  logg,
	}

	if cfg.Reminder.Enabled {
		pub, err := notify.NewMQTTPublisher(cfg.Reminder.MQTT)
		if err != nil {
			return nil, fmt.Errorf("reminder publisher: %w", err)
		}
		svc.notifier = pub
		svc.job = reminder.New(
			store,
			pub,
			time.Duration(cfg.Reminder.LeadHours)*time.Hour,
			time.Duration(cfg.Reminder.IntervalMinutes)*time.Minute,
			logger.New("reminder"),
		)
	}
	return svc, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)

	if s.cfg.Metrics.Prometheus.Enabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.Prometheus.Addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.job != nil {
		go s.job.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if closer, ok := s.sink.(interface{ Close() }); ok {
		closer.Close()
	}
	if s.notifier != nil {
		s.notifier.Close()
	}
	return nil
}
