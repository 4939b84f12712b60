// Package reminder periodically publishes due-soon notifications for stored
// assignments.
package reminder

import (
	"context"
	"time"

	"github.com/studyflow/studyflow/core/logger"
	"github.com/studyflow/studyflow/core/model"
)

// Publisher delivers a reminder payload to interested consumers.
type Publisher interface {
	Publish(payload any) error
}

// Lister provides the assignments to scan.
type Lister interface {
	Assignments() ([]model.Assignment, error)
}

// Reminder is the payload published for an assignment entering the lead
// window.
type Reminder struct {
	AssignmentID string    `json:"assignmentId"`
	UserID       string    `json:"userId,omitempty"`
	Title        string    `json:"title"`
	DueDate      time.Time `json:"dueDate"`
	HoursLeft    float64   `json:"hoursLeft"`
}

// Job scans assignments on an interval and publishes one reminder per
// assignment once its due date falls inside the lead window.
type Job struct {
	store    Lister
	pub      Publisher
	lead     time.Duration
	interval time.Duration
	log      logger.Logger
	now      func() time.Time
	sent     map[string]struct{}
}

// New creates a reminder job.
func New(store Lister, pub Publisher, lead, interval time.Duration, log logger.Logger) *Job {
	return &Job{
		store:    store,
		pub:      pub,
		lead:     lead,
		interval: interval,
		log:      log,
		now:      time.Now,
		sent:     make(map[string]struct{}),
	}
}

// Run blocks until the context is canceled, scanning once per interval.
func (j *Job) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.RunOnce(); err != nil {
				j.log.Errorf("reminder scan: %v", err)
			}
		}
	}
}

// RunOnce performs a single scan. Each assignment is reminded at most once
// per process lifetime.
func (j *Job) RunOnce() error {
	assignments, err := j.store.Assignments()
	if err != nil {
		return err
	}
	now := j.now()
	deadline := now.Add(j.lead)
	for _, a := range assignments {
		if _, done := j.sent[a.ID]; done {
			continue
		}
		if a.DueDate.Before(now) || a.DueDate.After(deadline) {
			continue
		}
		rem := Reminder{
			AssignmentID: a.ID,
			UserID:       a.UserID,
			Title:        a.Title,
			DueDate:      a.DueDate,
			HoursLeft:    a.DueDate.Sub(now).Hours(),
		}
		if err := j.pub.Publish(rem); err != nil {
			j.log.Warnf("publish reminder for %s: %v", a.ID, err)
			continue
		}
		j.sent[a.ID] = struct{}{}
		j.log.Infof("reminder published for %q due %s", a.Title, a.DueDate.Format(time.RFC3339))
	}
	return nil
}
