package table

import "fmt"

// Normalize converts raw sheet rows into a SheetTable. The first raw row holds
// the header candidates; every later row becomes one Row carrying exactly the
// resolved header keys, with nil for cells the raw row does not reach.
func Normalize(rawRows [][]interface{}) SheetTable {
	if len(rawRows) == 0 {
		return SheetTable{Headers: []string{}, Rows: []Row{}}
	}

	headers := resolveHeaders(rawRows[0])
	rows := make([]Row, 0, len(rawRows)-1)
	for _, raw := range rawRows[1:] {
		row := NewRow(headers)
		for i, h := range headers {
			if i < len(raw) {
				row.values[h] = raw[i]
			}
		}
		rows = append(rows, row)
	}

	return SheetTable{
		Headers:     headers,
		Rows:        rows,
		RowCount:    len(rawRows) - 1,
		ColumnCount: len(headers),
	}
}

func resolveHeaders(candidates []interface{}) []string {
	headers := make([]string, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for i, c := range candidates {
		name := FormatCell(c)
		if isBlankHeader(c) {
			name = fmt.Sprintf("Column_%d", i+1)
		}
		for seen[name] {
			name = fmt.Sprintf("%s_%d", name, i+1)
		}
		seen[name] = true
		headers[i] = name
	}
	return headers
}
