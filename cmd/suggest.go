package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/studyflow/studyflow/core/model"
	"github.com/studyflow/studyflow/core/planner"
	"github.com/studyflow/studyflow/infra/logger"
)

var (
	suggestTitle    string
	suggestDue      string
	suggestHours    float64
	suggestPriority string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print a study plan for a single assignment",
	RunE:  suggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestTitle, "title", "", "assignment title")
	suggestCmd.Flags().StringVar(&suggestDue, "due", "", "due date (RFC3339 or YYYY-MM-DD)")
	suggestCmd.Flags().Float64Var(&suggestHours, "hours", 1, "estimated hours of work")
	suggestCmd.Flags().StringVar(&suggestPriority, "priority", "medium", "priority: low, medium or high")
	rootCmd.AddCommand(suggestCmd)
}

func suggest(cmd *cobra.Command, args []string) error {
	due, err := parseDue(suggestDue)
	if err != nil {
		return err
	}
	a := model.Assignment{
		Title:          suggestTitle,
		DueDate:        due,
		EstimatedHours: suggestHours,
		Priority:       model.ParsePriority(suggestPriority),
	}
	if err := a.Validate(); err != nil {
		return err
	}

	svc := planner.New(logger.New("suggest"))
	plan := svc.Plan(context.Background(), planner.Request{Assignment: a})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

func parseDue(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("--due is required")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q", s)
}
