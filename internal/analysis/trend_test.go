package analysis

import (
	"testing"

	"sheetlens/domain/core"
	"sheetlens/domain/insight"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floats(vals ...float64) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func TestDetectTrend(t *testing.T) {
	tests := []struct {
		name      string
		values    []interface{}
		direction TrendDirection
		increases int
		decreases int
		strength  float64
	}{
		{"increasing", floats(1, 2, 3, 4, 5), TrendIncreasing, 4, 0, 100},
		{"decreasing", floats(5, 4, 3, 2, 1), TrendDecreasing, 0, 4, 100},
		{"flat", floats(1, 1, 1), TrendStable, 0, 0, 0},
		{"mixed", floats(1, 3, 2, 4, 3), TrendStable, 2, 2, 0},
		{"mostly up", floats(1, 2, 3, 2, 4, 5), TrendIncreasing, 4, 1, 80},
		{"non numeric skipped", []interface{}{"1", "x", nil, "2", 3.0}, TrendIncreasing, 2, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DetectTrend(tt.values, "Sales")
			require.NoError(t, err)
			assert.Equal(t, tt.direction, r.Direction)
			assert.Equal(t, tt.increases, r.Increases)
			assert.Equal(t, tt.decreases, r.Decreases)
			assert.Equal(t, tt.strength, r.Strength)
		})
	}
}

func TestDetectTrendStats(t *testing.T) {
	r, err := DetectTrend(floats(10, 20, 30, 40), "Revenue")
	require.NoError(t, err)

	assert.Equal(t, 10.0, r.Min)
	assert.Equal(t, 40.0, r.Max)
	assert.Equal(t, 25.0, r.Average)
	assert.Equal(t, 30.0, r.Range)
	assert.Equal(t, 120.0, r.Volatility)
	require.Len(t, r.Notes, 2)
	assert.Equal(t, "Volatility is 120.0%, indicating high variability.", r.Notes[1].Message)

	rec := r.Record()
	assert.Equal(t, insight.KindTrend, rec.Kind)
	assert.Equal(t, "Trend Analysis: Revenue", rec.Title)
}

func TestDetectTrendZeroAverage(t *testing.T) {
	r, err := DetectTrend(floats(-2, 0, 2), "Delta")
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Average)
	assert.Equal(t, 0.0, r.Volatility)
	assert.Contains(t, r.Notes[1].Message, "moderate")
}

func TestDetectTrendInsufficientData(t *testing.T) {
	_, err := DetectTrend(floats(1, 2), "Sales")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	assert.Contains(t, err.Error(), "found 2")
}
