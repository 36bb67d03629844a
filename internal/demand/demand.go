// Package demand implements per-slot staffing demand curves, a handful of
// preset shapes, and the match-score metrics the demand-aware entry point
// reports alongside a solved Schedule (spec.md §4.7 / DATA MODEL). Wire
// structs follow the teacher's engine/types JSON-tagged style
// (internal/engine/types/scheduler.go) so a DemandCurve round-trips through
// the canonical exchange form named in spec.md §8.
package demand

import (
	"encoding/json"
	"fmt"

	"github.com/workforce-eng/shiftsched/internal/model"
)

// Profile is a named preset shape for synthesizing a DemandCurve without
// hand-authoring per-slot targets.
type Profile string

const (
	// ProfileFlat applies a single target to every slot.
	ProfileFlat Profile = "flat"
	// ProfileRetailPeak concentrates demand around midday and early evening,
	// the two retail-floor peaks a workforce-scheduling demo typically
	// exercises.
	ProfileRetailPeak Profile = "retail_peak"
	// ProfileRamp linearly increases demand from open to close.
	ProfileRamp Profile = "ramp"
)

// BuildCurve synthesizes a DemandCurve of numSlots slots for the given
// profile, peaking at peak associates (ProfileFlat uses peak as its flat
// level).
func BuildCurve(profile Profile, numSlots, peak int) (model.DemandCurve, error) {
	if numSlots <= 0 {
		return model.DemandCurve{}, fmt.Errorf("demand: numSlots must be positive, got %d", numSlots)
	}
	if peak < 0 {
		return model.DemandCurve{}, fmt.Errorf("demand: peak must be non-negative, got %d", peak)
	}

	curve := model.NewDemandCurve(numSlots)
	switch profile {
	case ProfileFlat, "":
		for t := range curve.Target {
			curve.Target[t] = peak
		}
	case ProfileRetailPeak:
		midday := numSlots / 2
		evening := (numSlots * 3) / 4
		for t := range curve.Target {
			d1 := gaussianBump(t, midday, numSlots/8, peak)
			d2 := gaussianBump(t, evening, numSlots/10, peak)
			base := peak / 3
			v := base
			if d1 > v {
				v = d1
			}
			if d2 > v {
				v = d2
			}
			curve.Target[t] = v
		}
	case ProfileRamp:
		for t := range curve.Target {
			curve.Target[t] = (peak * (t + 1)) / numSlots
		}
	default:
		return model.DemandCurve{}, fmt.Errorf("demand: unknown profile %q", profile)
	}
	return curve, nil
}

// gaussianBump returns an integer approximation of a bump of height peak
// centered at center with the given spread, used only to shape presets —
// no statistical claim is made about the distribution.
func gaussianBump(t, center, spread, peak int) int {
	if spread <= 0 {
		spread = 1
	}
	d := t - center
	if d < 0 {
		d = -d
	}
	if d > spread*3 {
		return 0
	}
	// Triangular falloff approximates a bump without floating-point trig.
	v := peak - (peak*d)/(spread*3)
	if v < 0 {
		return 0
	}
	return v
}

// wireCurve is the canonical JSON exchange form for a DemandCurve: slot
// indices, never wall-clock times, per spec.md §9 "Back references" and the
// DATA MODEL row for DemandCurve.
type wireCurve struct {
	Target []int `json:"target"`
}

// Encode serializes a DemandCurve to its canonical JSON exchange form.
func Encode(c model.DemandCurve) ([]byte, error) {
	return json.Marshal(wireCurve{Target: c.Target})
}

// Decode parses a DemandCurve from its canonical JSON exchange form.
func Decode(data []byte) (model.DemandCurve, error) {
	var w wireCurve
	if err := json.Unmarshal(data, &w); err != nil {
		return model.DemandCurve{}, fmt.Errorf("demand: decode curve: %w", err)
	}
	return model.DemandCurve{Target: w.Target}, nil
}

// MatchScore reports how closely a solved Schedule's coverage tracks a
// DemandCurve, per spec.md §8 scenario 5 ("overall_match_score"). Score is
// 100 when on_floor(t) >= demand(t) at every slot with nonzero demand;
// under-coverage reduces it proportionally to the curve's total demand.
// Over-coverage does not lower the score; it is only counted in
// OvercoveredSlots.
type MatchScore struct {
	// OverallPercent is the headline 0-100 score.
	OverallPercent float64
	// UndercoveredSlots counts slots where coverage fell short of demand.
	UndercoveredSlots int
	// OvercoveredSlots counts slots where coverage exceeded demand.
	OvercoveredSlots int
	// TotalDemand is Σ demand(t), the normalizer for the score.
	TotalDemand int
	// TotalMatched is Σ min(coverage(t), demand(t)).
	TotalMatched int
}

// Score computes a MatchScore for sched against curve.
func Score(sched *model.Schedule, curve model.DemandCurve) MatchScore {
	var result MatchScore
	for t := 0; t < sched.NumSlots && t < len(curve.Target); t++ {
		d := curve.At(t)
		c := sched.Coverage(t)
		result.TotalDemand += d
		matched := c
		if d < matched {
			matched = d
		}
		result.TotalMatched += matched
		switch {
		case c < d:
			result.UndercoveredSlots++
		case c > d:
			result.OvercoveredSlots++
		}
	}
	if result.TotalDemand == 0 {
		result.OverallPercent = 100
		return result
	}
	result.OverallPercent = 100 * float64(result.TotalMatched) / float64(result.TotalDemand)
	return result
}
