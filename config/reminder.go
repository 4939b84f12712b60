package config

import (
	"fmt"

	"github.com/studyflow/studyflow/infra/notify"
)

// ReminderConfig controls the due-soon reminder job.
type ReminderConfig struct {
	Enabled bool          `json:"enabled"`
	MQTT    notify.Config `json:"mqtt"`
	// LeadHours is how far ahead of a due date reminders fire.
	LeadHours int `json:"lead_hours"`
	// IntervalMinutes is the scan period.
	IntervalMinutes int `json:"interval_minutes"`
}

// SetDefaults applies sane defaults.
func (c *ReminderConfig) SetDefaults() {
	if c.LeadHours <= 0 {
		c.LeadHours = 24
	}
	if c.IntervalMinutes <= 0 {
		c.IntervalMinutes = 15
	}
	if c.Enabled {
		c.MQTT.SetDefaults()
	}
}

// Validate checks mandatory fields.
func (c ReminderConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := c.MQTT.Validate(); err != nil {
		return fmt.Errorf("reminder mqtt: %w", err)
	}
	return nil
}
