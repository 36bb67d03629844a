package demodata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce-eng/shiftsched/internal/model"
)

func TestGenerateRoster_DeterministicForSameSeed(t *testing.T) {
	cfg := DefaultRosterConfig
	cfg.Count = 10
	cfg.StartDate = model.DateFromYMD(2026, 1, 5)

	a := GenerateRoster(cfg)
	b := GenerateRoster(cfg)
	require.Len(t, a, 10)
	require.Len(t, b, 10)
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.Equal(t, a[i].Availability, b[i].Availability)
	}
}

func TestGenerateRoster_EveryAssociateHasAtLeastOneEligibleRole(t *testing.T) {
	cfg := DefaultRosterConfig
	cfg.Count = 30
	cfg.StartDate = model.DateFromYMD(2026, 1, 5)

	roster := GenerateRoster(cfg)
	for _, a := range roster {
		assert.NotEmpty(t, a.EligibleRoles(), "associate %s has no eligible roles", a.ID)
	}
}

func TestGenerateRoster_GrantsTwoOffDaysPerAssociate(t *testing.T) {
	cfg := DefaultRosterConfig
	cfg.Count = 5
	cfg.Days = 7
	cfg.StartDate = model.DateFromYMD(2026, 1, 5)

	roster := GenerateRoster(cfg)
	for _, a := range roster {
		offCount := 0
		for d := 0; d < cfg.Days; d++ {
			date := cfg.StartDate.AddDays(d)
			if av, ok := a.AvailabilityOn(date); ok && av.IsOff() {
				offCount++
			}
		}
		assert.Equal(t, 2, offCount, "associate %s", a.ID)
	}
}
