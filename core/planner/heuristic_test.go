package planner

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/studyflow/studyflow/core/model"
)

func planRequest(title string, due time.Time, hours float64) Request {
	return Request{Assignment: model.Assignment{Title: title, DueDate: due, EstimatedHours: hours}}
}

func TestPlanFullAllocation(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Essay", now.AddDate(0, 0, 3), 2)
	plan := Heuristic{}.Plan(req, now)

	if len(plan.Slots) == 0 {
		t.Fatalf("expected slots for a 2 hour assignment due in 3 days")
	}
	if plan.RemainingHours != 0 {
		t.Fatalf("expected remaining 0 got %v", plan.RemainingHours)
	}
	if math.Abs(plan.PlannedHours()-2) > 0.01 {
		t.Fatalf("expected 2 planned hours got %v", plan.PlannedHours())
	}
	if plan.Note != noteSuccess {
		t.Fatalf("unexpected note %q", plan.Note)
	}
	first := plan.Slots[0].Start
	want := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	if !first.Equal(want) {
		t.Fatalf("expected first slot at %v got %v", want, first)
	}
}

func TestPlanTightDeadline(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Quick", now.Add(time.Hour), 2)
	plan := Heuristic{}.Plan(req, now)

	if plan.RemainingHours <= 0 {
		t.Fatalf("expected remaining hours > 0 for a deadline in one hour")
	}
	if len(plan.Slots) != 0 {
		t.Fatalf("expected no slots got %d", len(plan.Slots))
	}
	if plan.Note != noteInsufficient {
		t.Fatalf("unexpected note %q", plan.Note)
	}
}

func TestPlanPastDueDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Late", now.AddDate(0, 0, -1), 3)
	plan := Heuristic{}.Plan(req, now)
	if plan.RemainingHours != 3 {
		t.Fatalf("expected full estimate remaining got %v", plan.RemainingHours)
	}
}

func TestPlanChunkSize(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 5)

	plan := Heuristic{}.Plan(planRequest("Large", due, 4), now)
	for _, s := range plan.Slots {
		if s.DurationHours != 1 {
			t.Fatalf("expected 1.0 hour chunks for a 4 hour estimate, got %v", s.DurationHours)
		}
	}

	plan = Heuristic{}.Plan(planRequest("Small", due, 2), now)
	for _, s := range plan.Slots {
		if s.DurationHours != 0.5 {
			t.Fatalf("expected 0.5 hour chunks for a 2 hour estimate, got %v", s.DurationHours)
		}
	}
}

func TestPlanWindowPriority(t *testing.T) {
	// Six hours fit in one day only by spilling into the morning window, so
	// all three windows of the first day must be used before the second day
	// is touched. The returned order is chronological.
	now := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	plan := Heuristic{}.Plan(planRequest("Order", now.AddDate(0, 0, 2), 6), now)

	wantHours := []int{9, 14, 15, 18, 19, 20}
	if len(plan.Slots) != len(wantHours) {
		t.Fatalf("expected %d slots got %d", len(wantHours), len(plan.Slots))
	}
	for i, s := range plan.Slots {
		if s.Start.Hour() != wantHours[i] {
			t.Fatalf("slot %d: expected hour %d got %d", i, wantHours[i], s.Start.Hour())
		}
		if s.Start.Day() != 10 {
			t.Fatalf("slot %d spilled to the next day at %v", i, s.Start)
		}
	}
}

func TestPlanPrefersAfternoonOverMorning(t *testing.T) {
	// A two hour estimate fits entirely in the afternoon window even though
	// the morning window is also free; afternoon has priority.
	now := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	plan := Heuristic{}.Plan(planRequest("Afternoon", now.AddDate(0, 0, 2), 2), now)
	for _, s := range plan.Slots {
		if h := s.Start.Hour(); h < 14 || h >= 16 {
			t.Fatalf("expected afternoon placement, got slot at hour %d", h)
		}
	}
}

func TestPlanSlotsStrictlyFuture(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 10, 0, 0, time.UTC)
	plan := Heuristic{}.Plan(planRequest("Future", now.AddDate(0, 0, 2), 5), now)
	for _, s := range plan.Slots {
		if !s.Start.After(now) {
			t.Fatalf("slot at %v is not strictly after now %v", s.Start, now)
		}
	}
}

func TestPlanConflictGuard(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	req := planRequest("Busy", now.AddDate(0, 0, 1), 1)
	// A commitment due mid-afternoon blocks the whole afternoon window.
	req.Commitments = []time.Time{time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)}

	plan := Heuristic{}.Plan(req, now)
	if plan.RemainingHours != 0 {
		t.Fatalf("expected full allocation got remaining %v", plan.RemainingHours)
	}
	for _, s := range plan.Slots {
		d := s.Start.Sub(req.Commitments[0])
		if d < 0 {
			d = -d
		}
		if d < conflictRadius {
			t.Fatalf("slot at %v lies within %v of the commitment", s.Start, conflictRadius)
		}
	}
	if plan.Slots[0].Start.Hour() != 18 {
		t.Fatalf("expected allocation pushed to the evening window, got hour %d", plan.Slots[0].Start.Hour())
	}
}

func TestPlanDayBoundary(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	plan := Heuristic{}.Plan(planRequest("Boundary", due, 10), now)

	lastAllowed := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	for _, s := range plan.Slots {
		if !s.Start.Before(lastAllowed) {
			t.Fatalf("slot at %v falls on or after the due day", s.Start)
		}
	}
}

func TestPlanEffortClamping(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 2)

	// Missing estimate defaults to one hour.
	plan := Heuristic{}.Plan(planRequest("Default", due, 0), now)
	if math.Abs(plan.PlannedHours()-1) > 0.01 {
		t.Fatalf("expected default 1 hour got %v", plan.PlannedHours())
	}

	// Tiny estimates are floored to half an hour.
	plan = Heuristic{}.Plan(planRequest("Tiny", due, 0.2), now)
	if math.Abs(plan.PlannedHours()-0.5) > 0.01 {
		t.Fatalf("expected floor of 0.5 hours got %v", plan.PlannedHours())
	}
}

func TestPlanFractionalEstimate(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	plan := Heuristic{}.Plan(planRequest("Fraction", now.AddDate(0, 0, 2), 1.25), now)

	if plan.RemainingHours != 0 {
		t.Fatalf("expected remaining 0 got %v", plan.RemainingHours)
	}
	if math.Abs(plan.PlannedHours()-1.25) > 0.01 {
		t.Fatalf("expected 1.25 planned hours got %v", plan.PlannedHours())
	}
	last := plan.Slots[len(plan.Slots)-1]
	if last.DurationHours != 0.25 {
		t.Fatalf("expected trailing 0.25 hour slot got %v", last.DurationHours)
	}
}

func TestPlanChronologicalOrder(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	plan := Heuristic{}.Plan(planRequest("Order", now.AddDate(0, 0, 4), 12), now)
	for i := 1; i < len(plan.Slots); i++ {
		if !plan.Slots[i].Start.After(plan.Slots[i-1].Start) {
			t.Fatalf("slots out of order at index %d", i)
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	req := planRequest("Repeat", now.AddDate(0, 0, 3), 3.5)
	req.Commitments = []time.Time{now.Add(30 * time.Hour)}

	a := Heuristic{}.Plan(req, now)
	b := Heuristic{}.Plan(req, now)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different plans")
	}
}

func TestPlanEffortConservation(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	for _, est := range []float64{0.5, 1, 2.25, 3, 7.75, 40} {
		plan := Heuristic{}.Plan(planRequest("Conserve", now.AddDate(0, 0, 2), est), now)
		if diff := math.Abs(plan.PlannedHours() + plan.RemainingHours - est); diff > 0.01 {
			t.Fatalf("estimate %v: planned %v + remaining %v drifts by %v",
				est, plan.PlannedHours(), plan.RemainingHours, diff)
		}
	}
}

func TestPlanHugeEstimateStaysNonNegative(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	req := planRequest("Thesis", now.AddDate(0, 0, 2), 1e18)
	plan := Heuristic{}.Plan(req, now)

	if plan.RemainingHours < 0 {
		t.Fatalf("remaining hours went negative: %v", plan.RemainingHours)
	}
	if len(plan.Slots) == 0 {
		t.Fatalf("expected slots before the due date")
	}
	if plan.Note != noteInsufficient {
		t.Fatalf("expected insufficiency note got %q", plan.Note)
	}
	if math.Abs(plan.PlannedHours()+plan.RemainingHours-model.MaxEffortHours) > 0.01 {
		t.Fatalf("effort not conserved at the cap: planned %v remaining %v",
			plan.PlannedHours(), plan.RemainingHours)
	}
}

func TestPlanKeepsWallClockAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST starts 2025-03-09 in New York; the whole allocation lands on
	// that day.
	now := time.Date(2025, 3, 8, 22, 0, 0, 0, loc)
	req := planRequest("Essay", time.Date(2025, 3, 10, 9, 0, 0, 0, loc), 6)
	plan := Heuristic{}.Plan(req, now)

	if plan.RemainingHours != 0 {
		t.Fatalf("expected full allocation got remaining %v", plan.RemainingHours)
	}
	wantHours := []int{9, 14, 15, 18, 19, 20}
	if len(plan.Slots) != len(wantHours) {
		t.Fatalf("expected %d slots got %d", len(wantHours), len(plan.Slots))
	}
	for i, slot := range plan.Slots {
		if slot.Start.Hour() != wantHours[i] {
			t.Fatalf("slot %d at wall-clock hour %d want %d", i, slot.Start.Hour(), wantHours[i])
		}
	}
}
