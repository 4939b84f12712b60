package metrics

import (
	"context"

	"github.com/studyflow/studyflow/core/events"
	coremetrics "github.com/studyflow/studyflow/core/metrics"
	"github.com/studyflow/studyflow/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// assignment lifecycle events. Planning events are recorded by the planner
// service itself; recording them here as well would double count.
// The collector stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, ok := ev.(events.AssignmentCreated); ok {
					if rec, ok := sink.(coremetrics.AssignmentRecorder); ok {
						_ = rec.RecordAssignment(coremetrics.AssignmentEvent{
							AssignmentID:   e.Assignment.ID,
							Priority:       e.Assignment.Priority.String(),
							EstimatedHours: e.Assignment.EstimatedHours,
							Time:           e.Time,
						})
					}
				}
			}
		}
	}()
}
