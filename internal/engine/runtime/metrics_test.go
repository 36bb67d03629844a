package runtime

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOperationTracksCallsAndAverages(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordOperation("e1", 10*time.Millisecond, nil)
	m.RecordOperation("e1", 30*time.Millisecond, errors.New("boom"))

	got := m.Get("e1")
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.TotalCalls)
	assert.Equal(t, int64(1), got.SuccessfulCalls)
	assert.Equal(t, int64(1), got.FailedCalls)
	assert.Equal(t, "boom", got.LastError)
	assert.Equal(t, 20*time.Millisecond, got.AverageDuration)
}

func TestGetUnknownEngineReturnsNil(t *testing.T) {
	m := NewMetricsCollector()
	assert.Nil(t, m.Get("nope"))
}

func TestGetAllReturnsIndependentCopies(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordOperation("e1", time.Millisecond, nil)

	all := m.GetAll()
	entry := all["e1"]
	entry.TotalCalls = 999

	assert.Equal(t, int64(1), m.Get("e1").TotalCalls, "mutating a GetAll copy must not affect the collector")
}

func TestRecordCircuitBreakerChangeAndOpenCount(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordCircuitBreakerChange("e1", "open")
	m.RecordCircuitOpen("e1")
	m.RecordCircuitOpen("e1")

	got := m.Get("e1")
	require.NotNil(t, got)
	assert.Equal(t, "open", got.CircuitBreakerState)
	assert.Equal(t, int64(2), got.CircuitOpenCount)
}
