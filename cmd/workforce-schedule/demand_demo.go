package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/workforce-eng/shiftsched/internal/cpsat"
	"github.com/workforce-eng/shiftsched/internal/demand"
	"github.com/workforce-eng/shiftsched/internal/demodata"
	"github.com/workforce-eng/shiftsched/internal/engine/cpsatengine"
	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
	"github.com/workforce-eng/shiftsched/internal/validate"
	"github.com/workforce-eng/shiftsched/pkg/scheduling"
)

var (
	demandCount   int
	demandDays    int
	demandSeed    int64
	demandProfile string
	demandPeak    int
	demandEngine  string
	demandMode    string
	demandOutput  string
)

var demandDemoCmd = &cobra.Command{
	Use:   "demand-demo",
	Short: "Solve a week against a synthetic demand curve",
	Long: `demand-demo layers a preset demand curve over a synthesized
week and runs the greedy heuristic, the CP-SAT engine or the hybrid engine, printing
each day's demand-match score.

Examples:
  workforce-schedule demand-demo --profile retail_peak --peak 12
  workforce-schedule demand-demo --engine cpsat --mode minimize_undercoverage`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := model.DateFromYMD(2026, 1, 5)
		end := start.AddDays(demandDays - 1)
		win := timeslot.DefaultWindow

		roster := demodata.GenerateRoster(demodata.RosterConfig{
			Count:             demandCount,
			StartDate:         start,
			Days:              demandDays,
			Window:            win,
			Seed:              demandSeed,
			MaxMinutesPerDay:  480,
			MaxMinutesPerWeek: 2400,
		})

		curve, err := demand.BuildCurve(demand.Profile(demandProfile), win.Slots(), demandPeak)
		if err != nil {
			return fmt.Errorf("demand curve: %w", err)
		}
		weeklyDemand := make(map[string]model.DemandCurve, demandDays)
		for d := start; d.Before(end) || d.Equal(end); d = d.AddDays(1) {
			weeklyDemand[d.String()] = curve
		}

		req := scheduling.WeeklyRequest{
			StartDate:       start,
			EndDate:         end,
			Associates:      roster,
			Window:          win,
			Policies:        policy.DefaultSet,
			JobCaps: map[model.JobRole]int{
				model.RolePicking:     demandCount,
				model.RoleGMDSM:       2,
				model.RoleExceptionSM: 1,
				model.RoleStaging:     3,
				model.RoleBackroom:    3,
				model.RoleSR:          2,
			},
			DaysOffPattern:  model.DaysOffTwoConsecutive,
			RequiredDaysOff: 2,
			Seed:            demandSeed,
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		result, err := scheduling.GenerateDemandAware(ctx, req, weeklyDemand, scheduling.DemandAwareConfig{
			Engine: demandEngine,
			CPSAT:  cpsatengine.Config{Mode: cpsat.OptimizationMode(demandMode)},
		})
		if err != nil {
			return fmt.Errorf("solve failed: %w", err)
		}

		if err := saveOutput(ctx, demandOutput, nil, result.Schedule); err != nil {
			return err
		}

		byID := make(map[string]model.Associate, len(roster))
		for _, a := range roster {
			byID[a.ID] = a
		}
		maxByAssoc := make(map[string]int, len(roster))
		for _, a := range roster {
			maxByAssoc[a.ID] = a.MaxMinutesPerWeek
		}
		valid := scheduling.ValidateWeekly(result.Schedule, win, policy.DefaultSet, req.JobCaps, byID, validate.WeeklyRules{
			MaxWeeklyByAssoc: maxByAssoc,
			Pattern:          model.DaysOffTwoConsecutive,
			RequiredDaysOff:  2,
		})

		fmt.Printf("Demand-aware schedule %s .. %s (engine=%s profile=%s)\n", start.String(), end.String(), demandEngine, demandProfile)
		fmt.Println(strings.Repeat("=", 60))
		var total float64
		for _, day := range result.Schedule.Days {
			score := result.MatchScores[day.Day.String()]
			fmt.Printf("%-12s match=%6.2f%% under=%-3d over=%-3d\n", day.Day.String(), score.OverallPercent, score.UndercoveredSlots, score.OvercoveredSlots)
			total += score.OverallPercent
		}
		if len(result.Schedule.Days) > 0 {
			fmt.Println(strings.Repeat("-", 60))
			fmt.Printf("Average match: %.2f%%\n", total/float64(len(result.Schedule.Days)))
		}
		if valid.IsValid {
			fmt.Println("Validation: OK")
		} else {
			fmt.Printf("Validation: %d violation(s)\n", len(valid.Violations))
			for _, v := range valid.Violations {
				fmt.Printf("  [%s] %s: %s\n", v.Kind, v.AssociateID, v.Message)
			}
			return errValidationFailed
		}
		return nil
	},
}

func init() {
	demandDemoCmd.Flags().IntVar(&demandCount, "count", 20, "number of synthetic associates")
	demandDemoCmd.Flags().IntVar(&demandDays, "days", 7, "number of days to schedule")
	demandDemoCmd.Flags().Int64Var(&demandSeed, "seed", 1, "random seed for roster generation")
	demandDemoCmd.Flags().StringVar(&demandProfile, "profile", string(demand.ProfileRetailPeak), "demand profile: flat, retail_peak, ramp")
	demandDemoCmd.Flags().IntVar(&demandPeak, "peak", 10, "peak associates the demand curve targets")
	demandDemoCmd.Flags().StringVar(&demandEngine, "engine", "heuristic", "solving engine: heuristic, cpsat, or hybrid")
	demandDemoCmd.Flags().StringVar(&demandMode, "mode", string(cpsat.ModeBalanced), "cpsat optimization mode: maximize_coverage, match_demand, minimize_undercoverage, balanced")
	demandDemoCmd.Flags().StringVar(&demandOutput, "output", "", "optional file to save the schedule to (.json exchange file, or .db/.sqlite archive)")
}
