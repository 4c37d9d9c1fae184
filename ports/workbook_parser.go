package ports

import "sheetlens/domain/workbook"

// WorkbookParser turns spreadsheet bytes into normalized tables. Failures
// come back inside the result, never as a panic.
type WorkbookParser interface {
	Parse(data []byte) workbook.Result
}
