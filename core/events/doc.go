// Package events defines the planning related events emitted on the event bus.
//
// Available event types:
//   - AssignmentCreated: a new assignment was persisted
//   - PlanGenerated: a planning call completed
package events
