package analysis

import (
	"testing"

	"sheetlens/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAnomaliesFlagsOutlier(t *testing.T) {
	values := floats(10, 10, 10, 10, 10, 10, 10, 10, 10, 100)

	r, err := DetectAnomalies(values, "Latency")
	require.NoError(t, err)

	assert.Equal(t, 19.0, r.Mean)
	assert.Equal(t, 27.0, r.StdDev)
	assert.Equal(t, 1, r.AnomalyCount)
	require.Len(t, r.Anomalies, 1)

	a := r.Anomalies[0]
	assert.Equal(t, 9, a.Index)
	assert.Equal(t, 100.0, a.Value)
	assert.Equal(t, 3.0, a.ZScore)
	assert.Equal(t, 426.32, a.DeviationPercent)
	assert.InDelta(t, 0.0027, a.TailProbability, 1e-4)
	require.Len(t, r.Notes, 1)
}

func TestDetectAnomaliesThresholdIsExclusive(t *testing.T) {
	// Population std dev is 36, so the z-score of 100 is exactly 2.
	r, err := DetectAnomalies(floats(10, 10, 10, 10, 100), "Load")
	require.NoError(t, err)

	assert.Equal(t, 28.0, r.Mean)
	assert.Equal(t, 36.0, r.StdDev)
	assert.Equal(t, 0, r.AnomalyCount)
	assert.Empty(t, r.Anomalies)
}

func TestDetectAnomaliesConstantColumn(t *testing.T) {
	r, err := DetectAnomalies(floats(5, 5, 5, 5, 5), "Flat")
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.StdDev)
	assert.Equal(t, 0, r.AnomalyCount)
	assert.Contains(t, r.Record().Content, "No significant anomalies")
}

func TestDetectAnomaliesCapsList(t *testing.T) {
	values := make([]interface{}, 0, 260)
	for i := 0; i < 240; i++ {
		values = append(values, 0.0)
	}
	for i := 0; i < 12; i++ {
		values = append(values, 100.0)
	}

	r, err := DetectAnomalies(values, "Spikes")
	require.NoError(t, err)
	assert.Equal(t, 12, r.AnomalyCount)
	assert.Len(t, r.Anomalies, MaxReportedAnomalies)
	assert.Equal(t, 240, r.Anomalies[0].Index)
}

func TestDetectAnomaliesInsufficientData(t *testing.T) {
	_, err := DetectAnomalies(floats(1, 2, 3, 4), "Sales")
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}
