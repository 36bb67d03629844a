package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/workforce-eng/shiftsched/internal/archive"
	"github.com/workforce-eng/shiftsched/internal/model"
)

// errValidationFailed signals a non-zero process exit per spec.md §6
// ("Exit code 0 on success, non-zero if validation fails"). The violation
// report is already printed to stdout before this is returned, so root's
// stderr echo of the error is just the non-zero-exit trigger.
var errValidationFailed = errors.New("schedule failed validation")

// saveOutput writes a solved schedule to path if one was given: a ".db" or
// ".sqlite" suffix archives it via internal/archive, anything else is
// treated as a JSON exchange file (spec.md §6's canonical exchange form).
// Exactly one of daily/weekly should be non-nil.
func saveOutput(ctx context.Context, path string, daily *model.Schedule, weekly *model.WeeklySchedule) error {
	if path == "" {
		return nil
	}
	if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite") {
		store, err := archive.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		if daily != nil {
			return store.SaveSchedule(ctx, daily)
		}
		return store.SaveWeekly(ctx, weekly)
	}

	var payload any
	if daily != nil {
		payload = toWireSchedule(daily)
	} else {
		days := make([]wireSchedule, 0, len(weekly.Days))
		for _, d := range weekly.Days {
			days = append(days, toWireSchedule(d))
		}
		payload = wireWeekly{
			Days:           days,
			FairnessScore:  weekly.FairnessScore,
			MinutesByAssoc: weekly.MinutesByAssoc,
			DaysByAssoc:    weekly.DaysByAssoc,
		}
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

// wireSchedule is the JSON exchange form for a Schedule: model.Date has no
// exported fields to marshal on its own, so the day renders as its string
// form here the same way internal/archive represents it for the sqlite path.
type wireSchedule struct {
	Day      string                          `json:"day"`
	NumSlots int                             `json:"num_slots"`
	JobCaps  map[model.JobRole]int           `json:"job_caps"`
	Shifts   map[string]model.AssignedShift  `json:"shifts"`
}

type wireWeekly struct {
	Days           []wireSchedule `json:"days"`
	FairnessScore  float64        `json:"fairness_score"`
	MinutesByAssoc map[string]int `json:"minutes_by_assoc"`
	DaysByAssoc    map[string]int `json:"days_by_assoc"`
}

func toWireSchedule(s *model.Schedule) wireSchedule {
	return wireSchedule{
		Day:      s.Day.String(),
		NumSlots: s.NumSlots,
		JobCaps:  s.JobCaps,
		Shifts:   s.Shifts,
	}
}
