package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workforce-eng/shiftsched/internal/demodata"
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
	"github.com/workforce-eng/shiftsched/internal/validate"
	"github.com/workforce-eng/shiftsched/pkg/scheduling"
)

var (
	weeklyCount   int
	weeklyDays    int
	weeklySeed    int64
	weeklyPattern string
	weeklyOutput  string
)

var weeklyDemoCmd = &cobra.Command{
	Use:   "weekly-demo",
	Short: "Solve a week against a synthesized roster",
	Long: `weekly-demo runs the multi-day coordinator across a synthetic
roster, enforcing the days-off pattern and weekly hour caps, then prints
each day's coverage plus the week's fairness score.

Examples:
  workforce-schedule weekly-demo
  workforce-schedule weekly-demo --days 14 --pattern ONE_WEEKEND_DAY`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := model.DateFromYMD(2026, 1, 5)
		end := start.AddDays(weeklyDays - 1)
		win := timeslot.DefaultWindow

		pattern := model.DaysOffPattern(weeklyPattern)

		roster := demodata.GenerateRoster(demodata.RosterConfig{
			Count:             weeklyCount,
			StartDate:         start,
			Days:              weeklyDays,
			Window:            win,
			Seed:              weeklySeed,
			MaxMinutesPerDay:  480,
			MaxMinutesPerWeek: 2400,
		})

		jobCaps := map[model.JobRole]int{
			model.RolePicking:     weeklyCount,
			model.RoleGMDSM:       2,
			model.RoleExceptionSM: 1,
			model.RoleStaging:     3,
			model.RoleBackroom:    3,
			model.RoleSR:          2,
		}

		req := scheduling.WeeklyRequest{
			StartDate:       start,
			EndDate:         end,
			Associates:      roster,
			Window:          win,
			Policies:        policy.DefaultSet,
			JobCaps:         jobCaps,
			DaysOffPattern:  pattern,
			RequiredDaysOff: 2,
			Seed:            weeklySeed,
		}

		weeklySched, err := scheduling.GenerateWeekly(req)
		if err != nil {
			return fmt.Errorf("solve failed: %w", err)
		}

		byID := make(map[string]model.Associate, len(roster))
		for _, a := range roster {
			byID[a.ID] = a
		}
		maxByAssoc := make(map[string]int, len(roster))
		for _, a := range roster {
			maxByAssoc[a.ID] = a.MaxMinutesPerWeek
		}
		result := scheduling.ValidateWeekly(weeklySched, win, policy.DefaultSet, jobCaps, byID, validate.WeeklyRules{
			MaxWeeklyByAssoc: maxByAssoc,
			Pattern:          pattern,
			RequiredDaysOff:  2,
		})

		if err := saveOutput(cmd.Context(), weeklyOutput, nil, weeklySched); err != nil {
			return err
		}

		fmt.Printf("Weekly schedule %s .. %s\n", start.String(), end.String())
		fmt.Println(strings.Repeat("=", 60))
		for _, day := range weeklySched.Days {
			fmt.Printf("%-12s associates=%-4d peak_coverage=%d\n", day.Day.String(), len(day.Shifts), maxInt(day.CoverageVector()))
		}
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("Fairness score (0-100, higher = more even): %.4f\n", weeklySched.FairnessScore)
		if result.IsValid {
			fmt.Println("Validation: OK")
		} else {
			fmt.Printf("Validation: %d violation(s)\n", len(result.Violations))
			for _, v := range result.Violations {
				fmt.Printf("  [%s] %s: %s\n", v.Kind, v.AssociateID, v.Message)
			}
		}
		if !result.IsValid {
			return errValidationFailed
		}
		return nil
	},
}

func init() {
	weeklyDemoCmd.Flags().IntVar(&weeklyCount, "count", 20, "number of synthetic associates")
	weeklyDemoCmd.Flags().IntVar(&weeklyDays, "days", 7, "number of days to schedule")
	weeklyDemoCmd.Flags().Int64Var(&weeklySeed, "seed", 1, "random seed for roster generation")
	weeklyDemoCmd.Flags().StringVar(&weeklyPattern, "pattern", string(model.DaysOffTwoConsecutive), "days-off pattern: NONE, TWO_CONSECUTIVE, ONE_WEEKEND_DAY, EVERY_OTHER_DAY")
	weeklyDemoCmd.Flags().StringVar(&weeklyOutput, "output", "", "optional file to save the schedule to (.json exchange file, or .db/.sqlite archive)")
}
