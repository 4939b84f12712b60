package planner

import (
	"math"
	"sort"
	"time"

	"github.com/studyflow/studyflow/core/model"
)

// Request carries the inputs of a single planning call. Commitments is the
// normalized timestamp list produced at the boundary; each entry blocks a
// symmetric two hour radius around itself.
type Request struct {
	Assignment  model.Assignment
	Profile     model.UserProfile
	Commitments []time.Time
}

// window is a daily preferred hour range [StartHour, EndHour).
type window struct {
	StartHour int
	EndHour   int
}

// preferredWindows are tried in priority order for every candidate day:
// afternoon focus time first, then evening, then morning.
var preferredWindows = []window{
	{StartHour: 14, EndHour: 16},
	{StartHour: 18, EndHour: 21},
	{StartHour: 9, EndHour: 11},
}

const (
	// conflictRadius blocks candidates near an existing commitment's
	// timestamp. The guard is commitment-level on purpose: it compares
	// against due instants, not busy intervals.
	conflictRadius = 2 * time.Hour

	slotNote         = "Suggested study slot"
	noteSuccess      = "Planned successfully."
	noteInsufficient = "Not enough free slots before the due date; consider extending available time or increasing daily study."
)

// centi is the number of effort units per hour. Effort accounting runs on
// integer hundredths of an hour so repeated decrements cannot drift, while
// slot durations still round exactly to two decimal places.
const centi = 100

// Heuristic is the deterministic slot allocator. It holds no state; the
// zero value is ready to use and safe for concurrent callers.
type Heuristic struct{}

// Plan allocates study slots for the assignment between now and the day
// before its due date, walking candidate days in ascending order and the
// preferred windows in priority order within each day. The first feasible
// candidate is always taken; no backtracking is attempted. Infeasibility is
// not an error: leftover effort is reported via RemainingHours.
//
// The caller captures now once and passes it in, which keeps a single call
// internally consistent and makes the function deterministic under test.
func (Heuristic) Plan(req Request, now time.Time) model.Plan {
	estimate := toCenti(req.Assignment.EffortHours())

	chunk := centi / 2
	if estimate >= 3*centi {
		chunk = centi
	}

	remaining := estimate
	var slots []model.TimeSlot

	day := dateOf(now)
	dueDay := dateOf(req.Assignment.DueDate.In(now.Location()))

	for ; remaining > 0 && day.Before(dueDay); day = day.AddDate(0, 0, 1) {
		for _, win := range preferredWindows {
			if remaining <= 0 {
				break
			}
			for c := win.StartHour * centi; c < win.EndHour*centi && remaining > 0; c += chunk {
				// Candidates are built from wall-clock components so a
				// 14:00 slot stays 14:00 on days with a DST transition.
				start := time.Date(day.Year(), day.Month(), day.Day(),
					c/centi, c%centi*60/centi, 0, 0, day.Location())
				if !start.After(now) {
					continue
				}
				if conflicts(start, req.Commitments) {
					continue
				}
				duration := chunk
				if remaining < chunk {
					duration = remaining
				}
				slots = append(slots, model.TimeSlot{
					Start:         start,
					DurationHours: fromCenti(duration),
					Note:          slotNote,
				})
				remaining -= duration
			}
		}
	}

	// Allocation walks windows in priority order, so a morning slot can be
	// emitted after an evening one on the same day. The returned plan is
	// chronological regardless of allocation order.
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })

	note := noteSuccess
	if remaining > 0 {
		note = noteInsufficient
	}
	return model.Plan{Slots: slots, RemainingHours: fromCenti(remaining), Note: note}
}

func conflicts(start time.Time, commitments []time.Time) bool {
	for _, c := range commitments {
		d := start.Sub(c)
		if d < 0 {
			d = -d
		}
		if d < conflictRadius {
			return true
		}
	}
	return false
}

// dateOf zeroes the time of day, keeping the location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func toCenti(hours float64) int {
	return int(math.Round(hours * centi))
}

func fromCenti(units int) float64 {
	return float64(units) / centi
}
