package analysis

import (
	"fmt"

	"sheetlens/domain/core"
	"sheetlens/domain/insight"
	"sheetlens/domain/table"
	"sheetlens/domain/workbook"
)

// categoricalRatio caps the unique-value share of a categorical column.
const categoricalRatio = 0.5

// Recommendation suggests a visualization.
type Recommendation struct {
	Type     string   `json:"type"`
	Chart    string   `json:"chart"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority string   `json:"priority"`
	Columns  []string `json:"columns"`
}

// RecommendationResult is the payload of a recommendation insight.
type RecommendationResult struct {
	NumericColumns     []string         `json:"numeric_columns"`
	CategoricalColumns []string         `json:"categorical_columns"`
	Recommendations    []Recommendation `json:"recommendations"`
}

// CategoricalColumns lists headers whose distinct values, blanks included,
// number more than one and fewer than half the rows. This heuristic is
// independent of Classify and may disagree with it.
func CategoricalColumns(sheet *table.SheetTable) []string {
	cols := []string{}
	if sheet == nil {
		return cols
	}
	for _, h := range sheet.Headers {
		values := sheet.Column(h)
		unique := make(map[interface{}]struct{})
		for _, v := range values {
			if v == nil {
				unique[nil] = struct{}{}
				continue
			}
			unique[uniqueKey(v)] = struct{}{}
		}
		if n := len(unique); float64(n) < float64(len(values))*categoricalRatio && n > 1 {
			cols = append(cols, h)
		}
	}
	return cols
}

// Recommend suggests charts for the first sheet of the workbook.
func Recommend(res *workbook.Result) (*RecommendationResult, error) {
	_, sheet, ok := res.FirstSheet()
	if !ok {
		return nil, core.NewInsufficientDataError("workbook has no sheet to recommend charts for")
	}

	numeric := NumericColumns(sheet)
	categorical := CategoricalColumns(sheet)
	r := &RecommendationResult{
		NumericColumns:     numeric,
		CategoricalColumns: categorical,
		Recommendations:    []Recommendation{},
	}

	if len(numeric) >= 2 {
		r.Recommendations = append(r.Recommendations, Recommendation{
			Type:     "visualization",
			Chart:    "scatter",
			Title:    "Scatter Plot Analysis",
			Message:  fmt.Sprintf("Consider creating a scatter plot using %s and %s to identify correlations.", numeric[0], numeric[1]),
			Priority: "high",
			Columns:  []string{numeric[0], numeric[1]},
		})
	}
	if len(numeric) >= 1 {
		r.Recommendations = append(r.Recommendations, Recommendation{
			Type:     "visualization",
			Chart:    "line",
			Title:    "Trend Analysis",
			Message:  fmt.Sprintf("Create a line chart to visualize trends in %s over time.", numeric[0]),
			Priority: "medium",
			Columns:  []string{numeric[0]},
		})
	}
	if len(categorical) > 0 && len(numeric) > 0 {
		r.Recommendations = append(r.Recommendations, Recommendation{
			Type:     "visualization",
			Chart:    "bar",
			Title:    "Category Comparison",
			Message:  fmt.Sprintf("Use a bar chart to compare %s across different %s categories.", numeric[0], categorical[0]),
			Priority: "high",
			Columns:  []string{categorical[0], numeric[0]},
		})
	}
	return r, nil
}

// Record converts the result into an insight record.
func (r *RecommendationResult) Record() insight.Record {
	return insight.Record{
		Kind:    insight.KindRecommendation,
		Title:   "Analysis Recommendations",
		Content: fmt.Sprintf("Based on your data structure, here are %d recommended analysis approaches.", len(r.Recommendations)),
		Data:    r,
	}
}
