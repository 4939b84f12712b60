package model

import "time"

// TimeSlot is a single contiguous proposed study interval.
type TimeSlot struct {
	Start         time.Time `json:"startISO"`
	DurationHours float64   `json:"durationHours"`
	Note          string    `json:"note"`
}

// End returns the instant at which the slot finishes.
func (s TimeSlot) End() time.Time {
	return s.Start.Add(time.Duration(s.DurationHours * float64(time.Hour)))
}

// Plan is the output of a planning call: an ordered list of slots plus the
// effort that could not be placed and a status note. Slots are chronological
// by construction.
type Plan struct {
	Slots          []TimeSlot `json:"slots"`
	RemainingHours float64    `json:"remainingHours"`
	Note           string     `json:"note"`
}

// PlannedHours returns the total effort covered by the plan's slots.
func (p Plan) PlannedHours() float64 {
	total := 0.0
	for _, s := range p.Slots {
		total += s.DurationHours
	}
	return total
}

// Complete reports whether the full estimate was placed before the due day.
func (p Plan) Complete() bool {
	return p.RemainingHours == 0
}
