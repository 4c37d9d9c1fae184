package excel

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Built-in number format IDs that render as dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// sheetReader turns excelize cells into typed values: float64 for numbers,
// time.Time for date-formatted numbers, nil for blanks and the formatted text
// for everything else.
type sheetReader struct {
	f          *excelize.File
	date1904   bool
	dateStyles map[int]bool
}

func newSheetReader(f *excelize.File) *sheetReader {
	r := &sheetReader{f: f, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

func (r *sheetReader) read(sheet string) ([][]interface{}, error) {
	formatted, err := r.f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	raw, err := r.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	out := make([][]interface{}, len(formatted))
	for ri, row := range formatted {
		cells := make([]interface{}, len(row))
		for ci, text := range row {
			rawText := text
			if ri < len(raw) && ci < len(raw[ri]) {
				rawText = raw[ri][ci]
			}
			cells[ci] = r.value(sheet, ci, ri, text, rawText)
		}
		out[ri] = cells
	}
	return out, nil
}

func (r *sheetReader) value(sheet string, col, row int, text, rawText string) interface{} {
	if text == "" && rawText == "" {
		return nil
	}

	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return text
	}
	cellType, err := r.f.GetCellType(sheet, ref)
	if err != nil {
		return text
	}

	switch cellType {
	case excelize.CellTypeBool, excelize.CellTypeError,
		excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return text
	case excelize.CellTypeDate:
		if t, ok := parseISODate(rawText); ok {
			return t
		}
		return text
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(rawText), 64)
	if err != nil {
		return text
	}
	if r.isDateCell(sheet, ref) {
		if t, err := excelize.ExcelDateToTime(num, r.date1904); err == nil {
			return t
		}
	}
	return num
}

func (r *sheetReader) isDateCell(sheet, ref string) bool {
	styleID, err := r.f.GetCellStyle(sheet, ref)
	if err != nil {
		return false
	}
	if cached, ok := r.dateStyles[styleID]; ok {
		return cached
	}

	isDate := false
	if style, err := r.f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = builtinDateFormats[style.NumFmt]
		}
	}
	r.dateStyles[styleID] = isDate
	return isDate
}

// isDateFormatCode inspects a custom number format for date or time tokens,
// ignoring quoted literals, escaped characters and bracketed sections.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, ch := range code {
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(ch)
		}
	}
	stripped := strings.ToLower(b.String())
	if stripped == "general" {
		return false
	}
	return strings.ContainsAny(stripped, "ydhs")
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
