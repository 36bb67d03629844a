// Package demodata synthesizes a randomized-but-seeded roster of
// associates for the CLI's demo verbs, the same role the teacher's
// container wiring plays when it seeds a local-mode database: giving a
// cold start something plausible to run against without external input.
package demodata

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
)

// RosterConfig controls synthetic roster generation.
type RosterConfig struct {
	Count             int
	StartDate         model.Date
	Days              int
	Window            timeslot.Window
	Seed              int64
	MaxMinutesPerDay  int
	MaxMinutesPerWeek int
}

// DefaultRosterConfig mirrors spec.md §4.1's default operating window and a
// typical full-time weekly cap.
var DefaultRosterConfig = RosterConfig{
	Count:             20,
	Days:              7,
	Window:            timeslot.DefaultWindow,
	Seed:              1,
	MaxMinutesPerDay:  480,
	MaxMinutesPerWeek: 2400,
}

// roleWeights biases role eligibility so PICKING (the overflow role) is
// near-universal and specialist roles are rarer, matching a real retail
// floor's headcount mix.
var roleWeights = []struct {
	role   model.JobRole
	chance float64
}{
	{model.RolePicking, 0.95},
	{model.RoleGMDSM, 0.35},
	{model.RoleExceptionSM, 0.20},
	{model.RoleStaging, 0.40},
	{model.RoleBackroom, 0.30},
	{model.RoleSR, 0.15},
}

// GenerateRoster builds cfg.Count synthetic associates with seeded
// availability, role eligibility, and preferences, deterministic for a
// given seed so demo output is reproducible.
func GenerateRoster(cfg RosterConfig) []model.Associate {
	rng := rand.New(rand.NewSource(cfg.Seed))
	numSlots := cfg.Window.Slots()

	out := make([]model.Associate, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		assoc := model.Associate{
			ID:                uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("assoc-%d-%d", cfg.Seed, i))).String(),
			Name:              fmt.Sprintf("Associate %d", i+1),
			Availability:      make(map[string]model.Availability, cfg.Days),
			MaxMinutesPerDay:  cfg.MaxMinutesPerDay,
			MaxMinutesPerWeek: cfg.MaxMinutesPerWeek,
			SupervisorAllowed: make(map[model.JobRole]bool),
			CannotDo:          make(map[model.JobRole]bool),
			RolePreference:    make(map[model.JobRole]model.Preference),
		}

		for _, rw := range roleWeights {
			if rng.Float64() < rw.chance {
				assoc.SupervisorAllowed[rw.role] = true
			}
		}
		if len(assoc.SupervisorAllowed) == 0 {
			assoc.SupervisorAllowed[model.RolePicking] = true
		}
		assignPreferences(rng, &assoc)

		offDay, secondOff := -1, -1
		if cfg.Days > 1 {
			offDay = rng.Intn(cfg.Days)
			secondOff = (offDay + 1 + rng.Intn(cfg.Days-1)) % cfg.Days
		}
		for d := 0; d < cfg.Days; d++ {
			date := cfg.StartDate.AddDays(d)
			if d == offDay || d == secondOff {
				assoc.Availability[date.String()] = model.Availability{StartSlot: 0, EndSlot: 0}
				continue
			}
			start, end := randomAvailabilityWindow(rng, numSlots)
			assoc.Availability[date.String()] = model.Availability{StartSlot: start, EndSlot: end}
		}

		out = append(out, assoc)
	}
	return out
}

func assignPreferences(rng *rand.Rand, assoc *model.Associate) {
	for role := range assoc.SupervisorAllowed {
		switch {
		case rng.Float64() < 0.15:
			assoc.RolePreference[role] = model.PreferenceWant
		case rng.Float64() < 0.10:
			assoc.RolePreference[role] = model.PreferenceAvoid
		}
	}
}

// randomAvailabilityWindow picks a contiguous sub-range of the operating
// window spanning at least half the day, so most candidates clear the
// minimum shift length after lunch/break policy is applied.
func randomAvailabilityWindow(rng *rand.Rand, numSlots int) (int, int) {
	minSpan := numSlots / 2
	if minSpan < 1 {
		minSpan = numSlots
	}
	span := minSpan + rng.Intn(numSlots-minSpan+1)
	start := rng.Intn(numSlots - span + 1)
	return start, start + span
}
