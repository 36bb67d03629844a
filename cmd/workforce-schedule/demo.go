package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workforce-eng/shiftsched/internal/demodata"
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
	"github.com/workforce-eng/shiftsched/pkg/scheduling"
)

var (
	demoCount  int
	demoSeed   int64
	demoFormat string
	demoOutput string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Solve one day against a synthesized roster",
	Long: `demo generates a seeded demo roster and runs the single-day
greedy heuristic against it, then prints the resulting schedule.

Examples:
  workforce-schedule demo
  workforce-schedule demo --count 40 --seed 7
  workforce-schedule demo --format json
  workforce-schedule demo --output schedule.json
  workforce-schedule demo --output archive.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := model.DateFromYMD(2026, 1, 5)
		win := timeslot.DefaultWindow

		roster := demodata.GenerateRoster(demodata.RosterConfig{
			Count:             demoCount,
			StartDate:         day,
			Days:              1,
			Window:            win,
			Seed:              demoSeed,
			MaxMinutesPerDay:  480,
			MaxMinutesPerWeek: 2400,
		})

		req := scheduling.DailyRequest{
			Day:        day,
			Associates: roster,
			Window:     win,
			Policies:   policy.DefaultSet,
			JobCaps: map[model.JobRole]int{
				model.RolePicking:     len(roster),
				model.RoleGMDSM:       2,
				model.RoleExceptionSM: 1,
				model.RoleStaging:     3,
				model.RoleBackroom:    3,
				model.RoleSR:          2,
			},
		}

		sched, stats, err := scheduling.GenerateScheduleStats(req)
		if err != nil {
			return fmt.Errorf("solve failed: %w", err)
		}

		byID := make(map[string]model.Associate, len(roster))
		for _, a := range roster {
			byID[a.ID] = a
		}
		result := scheduling.Validate(sched, win, policy.DefaultSet, req.JobCaps, byID)

		if err := saveOutput(cmd.Context(), demoOutput, sched, nil); err != nil {
			return err
		}

		if demoFormat == "json" {
			if err := printJSON(map[string]any{
				"day":        day.String(),
				"shifts":     sched.Shifts,
				"is_valid":   result.IsValid,
				"violations": result.Violations,
				"stats":      stats,
			}); err != nil {
				return err
			}
			if !result.IsValid {
				return errValidationFailed
			}
			return nil
		}

		printScheduleSummary(day, sched, result)
		fmt.Printf("Solver: %d iteration(s), %d candidate(s) considered, objective=%.2f\n",
			stats.Iterations, stats.CandidatesConsidered, stats.ObjectiveValue)
		if !result.IsValid {
			return errValidationFailed
		}
		return nil
	},
}

func printScheduleSummary(day model.Date, sched *model.Schedule, result model.ValidationResult) {
	fmt.Printf("Schedule for %s\n", day.String())
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("%-36s %-12s %-8s\n", "Associate", "Shift", "Minutes")
	for id, s := range sched.Shifts {
		fmt.Printf("%-36s %02d-%02d        %d\n", id, s.StartSlot, s.EndSlot, s.WorkMinutes)
	}
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Associates scheduled: %d\n", len(sched.Shifts))
	fmt.Printf("Peak coverage: %d\n", maxInt(sched.CoverageVector()))
	if result.IsValid {
		fmt.Println("Validation: OK")
	} else {
		fmt.Printf("Validation: %d violation(s)\n", len(result.Violations))
		for _, v := range result.Violations {
			fmt.Printf("  [%s] %s: %s\n", v.Kind, v.AssociateID, v.Message)
		}
	}
}

func maxInt(vals []int) int {
	max := 0
	for _, v := range vals {
		if v > max {
			max = v
		}
	}
	return max
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	demoCmd.Flags().IntVar(&demoCount, "count", 20, "number of synthetic associates")
	demoCmd.Flags().Int64Var(&demoSeed, "seed", 1, "random seed for roster generation")
	demoCmd.Flags().StringVar(&demoFormat, "format", "text", "stdout summary format: text or json")
	demoCmd.Flags().StringVar(&demoOutput, "output", "", "optional file to save the schedule to (.json exchange file, or .db/.sqlite archive)")
}
