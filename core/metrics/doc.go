// Package metrics defines interfaces and event types for collecting
// planning metrics. Sinks like PromSink and InfluxSink record planning
// outcomes and backend fallbacks and can be combined with NewMultiSink.
// The collector helper consumes events from the internal event bus.
package metrics
