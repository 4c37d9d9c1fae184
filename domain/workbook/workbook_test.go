package workbook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetlens/domain/table"
)

func TestAggregateTotalColumnsIsMax(t *testing.T) {
	sheets := map[string]*table.SheetTable{
		"B": {RowCount: 4, ColumnCount: 3},
		"A": {RowCount: 2, ColumnCount: 5},
	}

	meta := Aggregate([]string{"B", "A"}, sheets)

	assert.Equal(t, []string{"B", "A"}, meta.SheetNames)
	assert.Equal(t, 2, meta.SheetCount)
	assert.Equal(t, 6, meta.TotalRows)
	assert.Equal(t, 5, meta.TotalColumns)
}

func TestFirstSheet(t *testing.T) {
	res := Result{
		Success:  true,
		Workbook: Metadata{SheetNames: []string{"Data", "Other"}},
		Sheets: map[string]*table.SheetTable{
			"Data":  {RowCount: 1},
			"Other": {RowCount: 2},
		},
	}
	name, sheet, ok := res.FirstSheet()
	assert.True(t, ok)
	assert.Equal(t, "Data", name)
	assert.Equal(t, 1, sheet.RowCount)

	failed := Failed(errors.New("boom"))
	_, _, ok = failed.FirstSheet()
	assert.False(t, ok)
	assert.Equal(t, "boom", failed.ErrorMessage)
}
