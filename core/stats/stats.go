// Package stats aggregates stored assignments into the workload figures
// shown on the dashboard charts.
package stats

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/studyflow/studyflow/core/model"
)

// Summary describes the estimated workload across stored assignments.
type Summary struct {
	TotalAssignments    int                `json:"totalAssignments"`
	DueWithin7Days      int                `json:"dueWithin7Days"`
	TotalEstimatedHours float64            `json:"totalEstimatedHours"`
	MeanHours           float64            `json:"meanHours"`
	StdDevHours         float64            `json:"stdDevHours"`
	MaxHours            float64            `json:"maxHours"`
	DueHoursByDay       map[string]float64 `json:"dueHoursByDay"`
}

// Summarize computes workload figures for the assignments relative to now.
// Effort estimates are clamped the same way the planner clamps them.
func Summarize(assignments []model.Assignment, now time.Time) Summary {
	s := Summary{
		TotalAssignments: len(assignments),
		DueHoursByDay:    make(map[string]float64),
	}
	if len(assignments) == 0 {
		return s
	}

	horizon := now.AddDate(0, 0, 7)
	efforts := make([]float64, 0, len(assignments))
	for _, a := range assignments {
		effort := a.EffortHours()
		efforts = append(efforts, effort)
		s.TotalEstimatedHours += effort
		if effort > s.MaxHours {
			s.MaxHours = effort
		}
		if !a.DueDate.Before(now) && a.DueDate.Before(horizon) {
			s.DueWithin7Days++
		}
		day := a.DueDate.Format("2006-01-02")
		s.DueHoursByDay[day] += effort
	}

	s.MeanHours = stat.Mean(efforts, nil)
	if len(efforts) > 1 {
		s.StdDevHours = stat.StdDev(efforts, nil)
	}
	return s
}
