package analysis

import (
	"fmt"
	"strings"

	"sheetlens/domain/core"
	"sheetlens/domain/insight"
	"sheetlens/domain/table"
	"sheetlens/domain/workbook"
)

// MissingDataWarning is the missing-cell percentage above which the data
// quality note becomes a warning.
const MissingDataWarning = 10.0

// SummaryResult is the payload of a summary insight.
type SummaryResult struct {
	SheetCount        int            `json:"sheet_count"`
	TotalRows         int            `json:"total_rows"`
	TotalColumns      int            `json:"total_columns"`
	PrimarySheet      string         `json:"primary_sheet"`
	RowCount          int            `json:"row_count"`
	ColumnCount       int            `json:"column_count"`
	NumericColumns    []string       `json:"numeric_columns"`
	MissingCells      int            `json:"missing_cells"`
	MissingPercentage float64        `json:"missing_percentage"`
	Notes             []insight.Note `json:"insights"`
}

// NumericColumns lists the headers of sheet that are eligible for
// quantitative analysis, in header order.
func NumericColumns(sheet *table.SheetTable) []string {
	cols := []string{}
	if sheet == nil {
		return cols
	}
	for _, h := range sheet.Headers {
		if IsAnalysisEligible(sheet.Column(h)) {
			cols = append(cols, h)
		}
	}
	return cols
}

// Summarize describes the workbook and its first sheet.
func Summarize(res *workbook.Result) (*SummaryResult, error) {
	name, sheet, ok := res.FirstSheet()
	if !ok {
		return nil, core.NewInsufficientDataError("workbook has no sheet to summarize")
	}

	s := &SummaryResult{
		SheetCount:     res.Workbook.SheetCount,
		TotalRows:      res.Workbook.TotalRows,
		TotalColumns:   res.Workbook.TotalColumns,
		PrimarySheet:   name,
		RowCount:       sheet.RowCount,
		ColumnCount:    sheet.ColumnCount,
		NumericColumns: NumericColumns(sheet),
		Notes:          []insight.Note{},
	}

	for _, row := range sheet.Rows {
		for _, h := range sheet.Headers {
			if table.IsBlank(row.Value(h)) {
				s.MissingCells++
			}
		}
	}
	if cells := sheet.RowCount * sheet.ColumnCount; cells > 0 {
		s.MissingPercentage = round2(float64(s.MissingCells) / float64(cells) * 100)
	}

	if n := len(s.NumericColumns); n > 0 {
		s.Notes = append(s.Notes, insight.Note{
			Type:     "numeric_analysis",
			Message:  fmt.Sprintf("Found %d numeric column(s) suitable for quantitative analysis.", n),
			Severity: insight.SeverityInfo,
		})
	}
	if s.MissingCells > 0 {
		severity := insight.SeverityInfo
		if s.MissingPercentage > MissingDataWarning {
			severity = insight.SeverityWarning
		}
		s.Notes = append(s.Notes, insight.Note{
			Type:     "data_quality",
			Message:  fmt.Sprintf("%.2f%% of cells contain missing or empty values.", s.MissingPercentage),
			Severity: severity,
		})
	}
	return s, nil
}

// Record converts the result into an insight record.
func (s *SummaryResult) Record() insight.Record {
	var b strings.Builder
	fmt.Fprintf(&b, "This dataset contains %d sheet(s) with a total of %d rows and %d columns. ",
		s.SheetCount, s.TotalRows, s.TotalColumns)
	fmt.Fprintf(&b, "The primary sheet has %d data rows across %d columns. ", s.RowCount, s.ColumnCount)
	if len(s.NumericColumns) > 0 {
		fmt.Fprintf(&b, "Numeric columns available for analysis: %s. ", strings.Join(s.NumericColumns, ", "))
	} else {
		b.WriteString("No numeric columns were found. ")
	}
	fmt.Fprintf(&b, "%.2f%% of cells contain missing or empty values.", s.MissingPercentage)

	return insight.Record{
		Kind:    insight.KindSummary,
		Title:   "Data Summary",
		Content: b.String(),
		Data:    s,
	}
}
