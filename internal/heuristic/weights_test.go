package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/workforce-eng/shiftsched/internal/model"
)

func TestWeights_UniformWithoutDemand(t *testing.T) {
	w := UniformWeights
	assert.Equal(t, 1.0, w.At(5))
	assert.Equal(t, 0.0, w.Overstaff(5, 100))
}

func TestWeights_OverstaffWithDemand(t *testing.T) {
	curve := model.NewDemandCurve(10)
	curve.Target[3] = 2
	w := Weights{Demand: &curve, Lambda: 0.5}

	assert.Equal(t, 2.0, w.At(3))
	assert.Equal(t, 0.0, w.Overstaff(3, 2))
	assert.Equal(t, 1.0, w.Overstaff(3, 3))
}
