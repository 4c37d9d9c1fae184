package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func repeat(v interface{}, n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestClassify(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		values []interface{}
		want   ColumnType
	}{
		{
			name:   "no valid values",
			values: []interface{}{nil, "", nil},
			want:   ColumnEmpty,
		},
		{
			name:   "nine of ten numeric",
			values: append(repeat("12", 9), "n/a"),
			want:   ColumnNumeric,
		},
		{
			name:   "eight of ten numeric is not enough",
			values: append(repeat("12", 8), "n/a", "tbd"),
			want:   ColumnText,
		},
		{
			name:   "blanks do not count against numeric",
			values: append(repeat(1.0, 5), nil, nil, nil, "", ""),
			want:   ColumnNumeric,
		},
		{
			name:   "dates",
			values: append(repeat(day, 9), "unknown"),
			want:   ColumnDate,
		},
		{
			name:   "date strings",
			values: []interface{}{"Jan 2, 2024", "Feb 3, 2024", "Mar 4, 2024", "Apr 5, 2024", "May 6, 2024"},
			want:   ColumnDate,
		},
		{
			name:   "text",
			values: []interface{}{"north", "south", "east"},
			want:   ColumnText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.values))
		})
	}
}

func TestAnalyzeColumnRatios(t *testing.T) {
	a := AnalyzeColumn(append(repeat("12", 8), "n/a", "tbd", nil))
	assert.Equal(t, 11, a.TotalCount)
	assert.Equal(t, 10, a.ValidCount)
	assert.Equal(t, 8, a.NumericCount)
	assert.InDelta(t, 0.8, a.NumericRatio, 1e-12)
}

func TestIsAnalysisEligible(t *testing.T) {
	// 8 of 10 cells numeric: eligible even though blanks count in the denominator.
	assert.True(t, IsAnalysisEligible(append(repeat(1.0, 8), nil, nil)))
	// 7 of 10 is exactly the threshold and therefore excluded.
	assert.False(t, IsAnalysisEligible(append(repeat(1.0, 7), nil, nil, nil)))
	assert.False(t, IsAnalysisEligible(nil))
}
