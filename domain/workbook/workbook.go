package workbook

import "sheetlens/domain/table"

// Metadata describes a parsed workbook. It is computed once at parse time.
type Metadata struct {
	SheetNames   []string `json:"sheet_names"`
	SheetCount   int      `json:"sheet_count"`
	TotalRows    int      `json:"total_rows"`
	TotalColumns int      `json:"total_columns"`
}

// Result is the tagged outcome of parsing a workbook. When Success is false
// only ErrorMessage and Err are meaningful.
type Result struct {
	Success      bool                         `json:"success"`
	Workbook     Metadata                     `json:"workbook"`
	Sheets       map[string]*table.SheetTable `json:"sheets,omitempty"`
	ErrorMessage string                       `json:"error_message,omitempty"`
	Err          error                        `json:"-"`
}

// Failed builds a failure result.
func Failed(err error) Result {
	return Result{Success: false, ErrorMessage: err.Error(), Err: err}
}

// FirstSheet returns the first sheet in native order, if any.
func (r *Result) FirstSheet() (string, *table.SheetTable, bool) {
	if r == nil || !r.Success || len(r.Workbook.SheetNames) == 0 {
		return "", nil, false
	}
	name := r.Workbook.SheetNames[0]
	sheet, ok := r.Sheets[name]
	if !ok || sheet == nil {
		return name, nil, false
	}
	return name, sheet, true
}

// Aggregate builds workbook metadata from sheets given in native order.
// TotalColumns is the widest sheet, not the sum.
func Aggregate(names []string, sheets map[string]*table.SheetTable) Metadata {
	meta := Metadata{
		SheetNames: names,
		SheetCount: len(names),
	}
	for _, name := range names {
		sheet, ok := sheets[name]
		if !ok || sheet == nil {
			continue
		}
		meta.TotalRows += sheet.RowCount
		if sheet.ColumnCount > meta.TotalColumns {
			meta.TotalColumns = sheet.ColumnCount
		}
	}
	return meta
}

// SheetInfo is the per-sheet dimension summary returned by file info requests.
type SheetInfo struct {
	Name        string `json:"name"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
}

// Info is workbook metadata plus sheet dimensions, without row data.
type Info struct {
	Metadata
	Sheets []SheetInfo `json:"sheets"`
}
