package analysis

import (
	"fmt"

	"sheetlens/domain/core"
	"sheetlens/domain/insight"
	"sheetlens/domain/workbook"
)

// GenerateAll produces the insight bundle for a parsed workbook: a summary,
// trend and anomaly results for the first numeric column of the first sheet,
// and chart recommendations. Steps that fail are left out; the call itself
// never fails.
func GenerateAll(res *workbook.Result) []insight.Record {
	records := []insight.Record{}
	if res == nil || !res.Success {
		return records
	}

	if s, err := Summarize(res); err == nil {
		records = append(records, s.Record())
	}

	if _, sheet, ok := res.FirstSheet(); ok && sheet.RowCount > 0 {
		if numeric := NumericColumns(sheet); len(numeric) > 0 {
			values := sheet.Column(numeric[0])
			if t, err := DetectTrend(values, numeric[0]); err == nil {
				records = append(records, t.Record())
			}
			if a, err := DetectAnomalies(values, numeric[0]); err == nil {
				records = append(records, a.Record())
			}
		}
	}

	if r, err := Recommend(res); err == nil {
		records = append(records, r.Record())
	}
	return records
}

// Generate produces a single insight of the requested kind. For trend and
// anomaly kinds an empty column selects the first numeric column of the first
// sheet. Errors keep their reason so callers can tell "no numeric column"
// from "column too short".
func Generate(res *workbook.Result, kind insight.Kind, column string) (insight.Record, error) {
	if res == nil || !res.Success {
		return insight.Record{}, core.NewInsufficientDataError("upload has no parsed data")
	}

	switch kind {
	case insight.KindSummary:
		s, err := Summarize(res)
		if err != nil {
			return insight.Record{}, err
		}
		return s.Record(), nil

	case insight.KindRecommendation:
		r, err := Recommend(res)
		if err != nil {
			return insight.Record{}, err
		}
		return r.Record(), nil

	case insight.KindTrend, insight.KindAnomaly:
		name, sheet, ok := res.FirstSheet()
		if !ok {
			return insight.Record{}, core.NewInsufficientDataError("workbook has no sheets")
		}
		if column == "" {
			numeric := NumericColumns(sheet)
			if len(numeric) == 0 {
				return insight.Record{}, core.NewInsufficientDataError(
					fmt.Sprintf("sheet %q has no numeric column suitable for analysis", name))
			}
			column = numeric[0]
		} else if !sheet.HasHeader(column) {
			return insight.Record{}, core.NewValidationError("column", fmt.Sprintf("%q does not exist on sheet %q", column, name))
		}

		values := sheet.Column(column)
		if kind == insight.KindTrend {
			t, err := DetectTrend(values, column)
			if err != nil {
				return insight.Record{}, err
			}
			return t.Record(), nil
		}
		a, err := DetectAnomalies(values, column)
		if err != nil {
			return insight.Record{}, err
		}
		return a.Record(), nil
	}

	return insight.Record{}, core.NewValidationError("type", fmt.Sprintf("%s insights cannot be generated on demand", kind))
}
