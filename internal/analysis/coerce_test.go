package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{"float", 3.5, 3.5, true},
		{"int", 7, 7, true},
		{"plain string", "42", 42, true},
		{"unit suffix", "42kg", 42, true},
		{"leading space", "  -1.5e2x", -150, true},
		{"leading dot", ".5", 0.5, true},
		{"double dot", "1.5.3", 1.5, true},
		{"dangling exponent", "1e", 1, true},
		{"text", "abc", 0, false},
		{"currency prefix", "$12", 0, false},
		{"empty", "", 0, false},
		{"nil", nil, 0, false},
		{"overflow", "1e400", 0, false},
		{"bool", true, 0, false},
		{"date", time.Now(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumeric(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestNumericValuesKeepsOrder(t *testing.T) {
	got := NumericValues([]interface{}{"3", nil, "x", 1.0, "", "2 units"})
	assert.Equal(t, []float64{3, 1, 2}, got)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input interface{}
		ok    bool
	}{
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-05-01", true},
		{"05/01/2024", true},
		{"Jan 2, 2024", true},
		{"2024-05-01T10:00:00Z", true},
		{"yesterday", false},
		{42.0, false},
		{"", false},
	}
	for _, tt := range tests {
		_, ok := ParseDate(tt.input)
		assert.Equal(t, tt.ok, ok, "ParseDate(%v)", tt.input)
	}
}
