package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce-eng/shiftsched/internal/model"
)

func TestSelectShifts_PicksHighestGainCandidateFirst(t *testing.T) {
	numSlots := 20
	candidates := CandidatesByAssociate{
		"a1": {{StartSlot: 0, EndSlot: 16, WorkMinutes: 240}},
		"a2": {{StartSlot: 0, EndSlot: 8, WorkMinutes: 120}},
	}

	assigned := SelectShifts([]string{"a1", "a2"}, candidates, numSlots, UniformWeights)
	require.Len(t, assigned, 2)
	assert.Equal(t, 16, assigned["a1"].EndSlot)
	assert.Equal(t, 8, assigned["a2"].EndSlot)
}

func TestSelectShifts_SkipsAssociatesWithNoCandidates(t *testing.T) {
	candidates := CandidatesByAssociate{
		"a1": {{StartSlot: 0, EndSlot: 10, WorkMinutes: 150}},
		"a2": nil,
	}
	assigned := SelectShifts([]string{"a1", "a2"}, candidates, 20, UniformWeights)
	assert.Len(t, assigned, 1)
	_, ok := assigned["a2"]
	assert.False(t, ok)
}

func TestSelectShifts_DeterministicTiebreakByAssociateID(t *testing.T) {
	same := model.ShiftCandidate{StartSlot: 0, EndSlot: 16, WorkMinutes: 240}
	candidates := CandidatesByAssociate{
		"b": {same},
		"a": {same},
	}
	assigned := SelectShifts([]string{"b", "a"}, candidates, 20, UniformWeights)
	require.Len(t, assigned, 2)
}

func TestSelectShiftsStats_MatchesSelectShiftsAndCountsRounds(t *testing.T) {
	numSlots := 20
	candidates := CandidatesByAssociate{
		"a1": {{StartSlot: 0, EndSlot: 16, WorkMinutes: 240}},
		"a2": {{StartSlot: 0, EndSlot: 8, WorkMinutes: 120}},
	}

	assigned, stats := SelectShiftsStats([]string{"a1", "a2"}, candidates, numSlots, UniformWeights)
	require.Len(t, assigned, 2)
	assert.Equal(t, 2, stats.Iterations)
	assert.Equal(t, 3, stats.CandidatesConsidered)
	assert.Equal(t, 2, stats.AssociatesAssigned)
	assert.Greater(t, stats.ObjectiveValue, 0.0)
}

func TestSelectShiftsStats_ZeroValueWhenNoCandidatesHaveGain(t *testing.T) {
	_, stats := SelectShiftsStats(nil, CandidatesByAssociate{}, 20, UniformWeights)
	assert.Equal(t, 0, stats.Iterations)
	assert.Equal(t, 0, stats.CandidatesConsidered)
	assert.Equal(t, 0, stats.AssociatesAssigned)
	assert.Zero(t, stats.ObjectiveValue)
}

func TestAssignRoles_PrefersWantedRoleWhenCapacityAllows(t *testing.T) {
	shifts := map[string]model.AssignedShift{
		"a1": {AssociateID: "a1", StartSlot: 0, EndSlot: 4, WorkMinutes: 60},
	}
	associates := map[string]model.Associate{
		"a1": {
			ID:                "a1",
			SupervisorAllowed: map[model.JobRole]bool{model.RolePicking: true, model.RoleGMDSM: true},
			RolePreference:    map[model.JobRole]model.Preference{model.RoleGMDSM: model.PreferenceWant},
		},
	}
	caps := RoleCaps{model.RoleGMDSM: 5}

	AssignRoles(associates, shifts, caps, 4)
	for t := 0; t < 4; t++ {
		assert.Equal(t, model.RoleGMDSM, shifts["a1"].Roles[t])
	}
}

func TestAssignRoles_ContinuityKeepsRoleAcrossSlots(t *testing.T) {
	shifts := map[string]model.AssignedShift{
		"a1": {AssociateID: "a1", StartSlot: 0, EndSlot: 6, WorkMinutes: 90},
	}
	associates := map[string]model.Associate{
		"a1": {
			ID: "a1",
			SupervisorAllowed: map[model.JobRole]bool{
				model.RolePicking: true, model.RoleStaging: true,
			},
		},
	}
	caps := RoleCaps{model.RoleStaging: 1}

	AssignRoles(associates, shifts, caps, 6)
	first := shifts["a1"].Roles[0]
	for t := 1; t < 6; t++ {
		assert.Equal(t, first, shifts["a1"].Roles[t], "role should stay continuous absent a break boundary")
	}
}

func TestAssignRoles_FallsBackToPickingWhenOtherCapsSaturated(t *testing.T) {
	shifts := map[string]model.AssignedShift{
		"a1": {AssociateID: "a1", StartSlot: 0, EndSlot: 2, WorkMinutes: 30},
		"a2": {AssociateID: "a2", StartSlot: 0, EndSlot: 2, WorkMinutes: 30},
	}
	associates := map[string]model.Associate{
		"a1": {ID: "a1", SupervisorAllowed: map[model.JobRole]bool{model.RoleGMDSM: true, model.RolePicking: true}},
		"a2": {ID: "a2", SupervisorAllowed: map[model.JobRole]bool{model.RoleGMDSM: true, model.RolePicking: true}},
	}
	caps := RoleCaps{model.RoleGMDSM: 1}

	AssignRoles(associates, shifts, caps, 2)
	roles := map[model.JobRole]int{}
	for _, id := range []string{"a1", "a2"} {
		roles[shifts[id].Roles[0]]++
	}
	assert.Equal(t, 1, roles[model.RoleGMDSM])
	assert.Equal(t, 1, roles[model.RolePicking])
}
