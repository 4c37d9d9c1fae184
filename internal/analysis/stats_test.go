package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsNumeric(t *testing.T) {
	s := Stats([]interface{}{4.0, "1", nil, "3", 2.0, "n/a"})

	assert.True(t, s.Numeric)
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, 10.0, s.Sum)
	assert.Equal(t, 2.0, s.Median, "even counts use the lower middle element")
}

func TestLowerMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{9}, 9},
		{"odd", []float64{5, 1, 3}, 3},
		{"even", []float64{10, 40, 20, 30}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LowerMedian(tt.in))
		})
	}
}

func TestLowerMedianDoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	LowerMedian(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestStatsNonNumeric(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Stats([]interface{}{"a", "b", "a", nil, "", day, day})

	assert.False(t, s.Numeric)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 3, s.UniqueCount)
}
