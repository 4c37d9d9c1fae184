package analysis

import (
	"testing"
	"time"

	"sheetlens/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileColumns(t *testing.T) {
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	sheet := table.Normalize([][]interface{}{
		{"Date", "Region", "Revenue", "Empty"},
		{day, "North", 10.0, nil},
		{day.AddDate(0, 0, 1), "South", 30.0, ""},
		{day.AddDate(0, 0, 2), "North", 20.0, nil},
	})

	profiles := ProfileColumns(&sheet)
	require.Len(t, profiles, 4)

	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Date", "Region", "Revenue", "Empty"}, names)

	assert.Equal(t, ColumnDate, profiles[0].Type)
	assert.False(t, profiles[0].AnalysisEligible)

	assert.Equal(t, ColumnText, profiles[1].Type)
	assert.False(t, profiles[1].Stats.Numeric)
	assert.Equal(t, 2, profiles[1].Stats.UniqueCount)

	revenue := profiles[2]
	assert.Equal(t, ColumnNumeric, revenue.Type)
	assert.True(t, revenue.AnalysisEligible)
	assert.Equal(t, 3, revenue.Analysis.NumericCount)
	assert.Equal(t, 20.0, revenue.Stats.Median)
	assert.Equal(t, 60.0, revenue.Stats.Sum)

	assert.Equal(t, ColumnEmpty, profiles[3].Type)
	assert.Equal(t, 0, profiles[3].Stats.Count)
}

func TestProfileColumnsNilSheet(t *testing.T) {
	assert.Empty(t, ProfileColumns(nil))
}
