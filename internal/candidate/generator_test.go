package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce-eng/shiftsched/internal/model"
	"github.com/workforce-eng/shiftsched/internal/policy"
	"github.com/workforce-eng/shiftsched/internal/timeslot"
)

func fullAvailabilityAssociate() model.Associate {
	return model.Associate{
		ID:                "a1",
		MaxMinutesPerDay:  360,
		MaxMinutesPerWeek: 2400,
		SupervisorAllowed: map[model.JobRole]bool{model.RolePicking: true},
	}
}

// Scenario 1 (spec.md §8): single full-availability associate, 6-hour shift.
func TestGenerate_SixHourShiftHasShortLunchAndOneBreak(t *testing.T) {
	win := timeslot.DefaultWindow
	avail := model.Availability{StartSlot: 0, EndSlot: win.Slots()}
	assoc := fullAvailabilityAssociate()

	cands := Generate(avail, assoc, win, policy.DefaultSet, DefaultConfig)
	require.NotEmpty(t, cands)

	var found bool
	for _, c := range cands {
		if c.WorkMinutes == 360 {
			found = true
			require.NotNil(t, c.Lunch)
			assert.Equal(t, 30, c.Lunch.Duration*win.SlotMinutes)
			require.Len(t, c.Breaks, 1)
			assert.Equal(t, 15, c.Breaks[0].Duration*win.SlotMinutes)
			break
		}
	}
	assert.True(t, found, "expected a 360-minute-work candidate")
}

// Scenario 6 (spec.md §8): availability too short for the minimum shift.
func TestGenerate_NoCandidatesWhenAvailabilityTooShort(t *testing.T) {
	win := timeslot.DefaultWindow
	avail := model.Availability{StartSlot: 0, EndSlot: 15} // 3.75h < min_work 240min window needs ~16 slots
	assoc := fullAvailabilityAssociate()

	cands := Generate(avail, assoc, win, policy.DefaultSet, DefaultConfig)
	assert.Empty(t, cands)
}

func TestGenerate_OffDayProducesNoCandidates(t *testing.T) {
	win := timeslot.DefaultWindow
	avail := model.Availability{StartSlot: 10, EndSlot: 10}
	assoc := fullAvailabilityAssociate()

	cands := Generate(avail, assoc, win, policy.DefaultSet, DefaultConfig)
	assert.Empty(t, cands)
}

func TestGenerate_CandidatesAreSortedByDecreasingWorkThenEarlierStart(t *testing.T) {
	win := timeslot.DefaultWindow
	avail := model.Availability{StartSlot: 0, EndSlot: win.Slots()}
	assoc := fullAvailabilityAssociate()
	assoc.MaxMinutesPerDay = 480

	cands := Generate(avail, assoc, win, policy.DefaultSet, DefaultConfig)
	require.NotEmpty(t, cands)
	for i := 1; i < len(cands); i++ {
		prev, cur := cands[i-1], cands[i]
		if prev.WorkMinutes == cur.WorkMinutes {
			assert.LessOrEqual(t, prev.StartSlot, cur.StartSlot)
		} else {
			assert.Greater(t, prev.WorkMinutes, cur.WorkMinutes)
		}
	}
}

func TestGenerate_NoDuplicateCandidates(t *testing.T) {
	win := timeslot.DefaultWindow
	avail := model.Availability{StartSlot: 0, EndSlot: 30}
	assoc := fullAvailabilityAssociate()
	assoc.MaxMinutesPerDay = 480

	cands := Generate(avail, assoc, win, policy.DefaultSet, DefaultConfig)
	seen := make(map[string]bool)
	for _, c := range cands {
		k := candidateKey(c)
		assert.False(t, seen[k], "duplicate candidate produced")
		seen[k] = true
	}
}
