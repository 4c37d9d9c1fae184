package upload

import (
	"errors"
	"testing"

	"sheetlens/domain/core"
	"sheetlens/domain/table"
	"sheetlens/domain/workbook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		size     int64
		wantErr  bool
	}{
		{"xlsx", "report.xlsx", MimeXLSX, 1024, false},
		{"xls upper case", "REPORT.XLS", MimeXLS, 1024, false},
		{"mime with params", "a.xlsx", MimeXLSX + "; charset=binary", 10, false},
		{"csv rejected", "data.csv", "text/csv", 10, true},
		{"extension mismatch", "data.txt", MimeXLSX, 10, true},
		{"wrong mime", "data.xlsx", "application/pdf", 10, true},
		{"too large", "big.xlsx", MimeXLSX, MaxFileSize + 1, true},
		{"empty", "none.xlsx", MimeXLSX, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.fileName, tt.mimeType, tt.size, 0)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyResult(t *testing.T) {
	u := New(core.NewID(), "a.xlsx", "/tmp/a.xlsx", MimeXLSX, []byte("abc"))
	assert.Equal(t, StatusProcessing, u.Status)
	assert.Equal(t, int64(3), u.FileSizeBytes)
	assert.False(t, u.ContentHash.IsEmpty())

	sheet := table.Normalize([][]interface{}{{"a", "b"}, {1.0, 2.0}})
	u.ApplyResult(workbook.Result{
		Success:  true,
		Workbook: workbook.Metadata{SheetNames: []string{"S"}, SheetCount: 1, TotalRows: 1, TotalColumns: 2},
		Sheets:   map[string]*table.SheetTable{"S": &sheet},
	})
	assert.Equal(t, StatusCompleted, u.Status)
	assert.Equal(t, 2, u.ColumnCount)

	wb := u.Workbook()
	require.True(t, wb.Success)
	name, _, ok := wb.FirstSheet()
	assert.True(t, ok)
	assert.Equal(t, "S", name)

	u.ApplyResult(workbook.Failed(errors.New("corrupt")))
	assert.Equal(t, StatusFailed, u.Status)
	assert.Equal(t, "corrupt", u.ErrorMessage)
	assert.False(t, u.Workbook().Success)
}
