package excel

import (
	"testing"
	"time"

	"sheetlens/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes sheets in the given order into an in-memory xlsx.
func buildWorkbook(t *testing.T, order []string, sheets map[string][][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseKeepsNativeSheetOrder(t *testing.T) {
	data := buildWorkbook(t, []string{"Zeta", "Alpha", "Mid"}, map[string][][]interface{}{
		"Zeta":  {{"a", "b", "c"}, {1, 2, 3}},
		"Alpha": {{"a", "b", "c", "d", "e"}, {1, 2, 3, 4, 5}, {6, 7, 8, 9, 10}},
		"Mid":   {{"only"}},
	})

	res := NewParser().Parse(data)
	require.True(t, res.Success, res.ErrorMessage)

	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, res.Workbook.SheetNames)
	assert.Equal(t, 3, res.Workbook.SheetCount)
	assert.Equal(t, 3, res.Workbook.TotalRows)
	assert.Equal(t, 5, res.Workbook.TotalColumns, "total columns is the max, not the sum")
	assert.Equal(t, 0, res.Sheets["Mid"].RowCount)
}

func TestParseTypesCells(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	data := buildWorkbook(t, []string{"Sales"}, map[string][][]interface{}{
		"Sales": {
			{"Region", nil, "Amount", "Date"},
			{"North", "x", 42.5, day},
			{"South"},
		},
	})

	res := NewParser().Parse(data)
	require.True(t, res.Success, res.ErrorMessage)

	sheet := res.Sheets["Sales"]
	require.NotNil(t, sheet)
	assert.Equal(t, []string{"Region", "Column_2", "Amount", "Date"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)

	first := sheet.Rows[0]
	assert.Equal(t, "North", first.Value("Region"))
	assert.Equal(t, 42.5, first.Value("Amount"))

	when, ok := first.Value("Date").(time.Time)
	require.True(t, ok, "date cells should come back as time.Time, got %T", first.Value("Date"))
	assert.Equal(t, 2024, when.Year())
	assert.Equal(t, time.January, when.Month())
	assert.Equal(t, 15, when.Day())

	second := sheet.Rows[1]
	amount, present := second.Get("Amount")
	assert.True(t, present)
	assert.Nil(t, amount)
}

func TestParseUnreadableFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("this is not a spreadsheet")},
		{"legacy biff header", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewParser().Parse(tt.data)
			assert.False(t, res.Success)
			assert.NotEmpty(t, res.ErrorMessage)
			assert.True(t, core.IsUnreadableFileError(res.Err))
		})
	}
}

func TestInfoAndExtractSheet(t *testing.T) {
	data := buildWorkbook(t, []string{"One", "Two"}, map[string][][]interface{}{
		"One": {{"a", "b"}, {1, 2}, {3, 4}},
		"Two": {{"x", "y", "z"}, {1, 2, 3}},
	})
	p := NewParser()

	info, err := p.Info(data)
	require.NoError(t, err)
	assert.Equal(t, 2, info.SheetCount)
	assert.Equal(t, 3, info.TotalRows)
	assert.Equal(t, 3, info.TotalColumns)
	require.Len(t, info.Sheets, 2)
	assert.Equal(t, "One", info.Sheets[0].Name)
	assert.Equal(t, 2, info.Sheets[0].RowCount)

	sheet, err := p.ExtractSheet(data, "Two")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, sheet.Headers)

	_, err = p.ExtractSheet(data, "Missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"yyyy-mm-dd", true},
		{"h:mm AM/PM", true},
		{"#,##0.00", false},
		{`"days"0`, false},
		{"[Red]0.00", false},
		{"General", false},
		{`0.0\d`, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormatCode(tt.code))
		})
	}
}
