package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SheetTable is one sheet normalized into headers and row objects.
type SheetTable struct {
	Headers     []string `json:"headers"`
	Rows        []Row    `json:"rows"`
	RowCount    int      `json:"row_count"`
	ColumnCount int      `json:"column_count"`
}

// Column returns the value series for header in row order. Rows missing the
// key contribute nil.
func (t *SheetTable) Column(header string) []interface{} {
	values := make([]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row.Value(header)
	}
	return values
}

// HasHeader reports whether header names a column of the table.
func (t *SheetTable) HasHeader(header string) bool {
	for _, h := range t.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// UnmarshalJSON rebuilds rows against the header list, so key order and the
// key set survive stores that do not preserve object ordering (JSONB).
func (t *SheetTable) UnmarshalJSON(data []byte) error {
	var raw struct {
		Headers     []string                 `json:"headers"`
		Rows        []map[string]interface{} `json:"rows"`
		RowCount    int                      `json:"row_count"`
		ColumnCount int                      `json:"column_count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.Headers = raw.Headers
	t.RowCount = raw.RowCount
	t.ColumnCount = raw.ColumnCount
	t.Rows = make([]Row, len(raw.Rows))
	for i, obj := range raw.Rows {
		row := NewRow(raw.Headers)
		for _, h := range raw.Headers {
			row.values[h] = decodeCell(obj[h])
		}
		t.Rows[i] = row
	}
	return nil
}

// decodeCell restores values whose JSON form loses their type. Date cells
// are written as RFC 3339 strings by time.Time's marshaller.
func decodeCell(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok || len(s) < len("2006-01-02T15:04:05Z") || s[4] != '-' {
		return v
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return v
}

// FormatCell renders a cell value the way it is shown to users.
func FormatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

// IsBlank reports whether v is nil or an empty string.
func IsBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func isBlankHeader(v interface{}) bool {
	return strings.TrimSpace(FormatCell(v)) == ""
}
