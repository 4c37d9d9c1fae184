package analysis

import "sheetlens/domain/table"

// ColumnProfile is the classification and descriptive statistics of one column.
type ColumnProfile struct {
	Name             string       `json:"name"`
	Type             ColumnType   `json:"type"`
	AnalysisEligible bool         `json:"analysis_eligible"`
	Analysis         TypeAnalysis `json:"analysis"`
	Stats            ColumnStats  `json:"stats"`
}

// ProfileColumns profiles every column of sheet in header order.
func ProfileColumns(sheet *table.SheetTable) []ColumnProfile {
	if sheet == nil {
		return []ColumnProfile{}
	}
	profiles := make([]ColumnProfile, 0, len(sheet.Headers))
	for _, h := range sheet.Headers {
		values := sheet.Column(h)
		a := AnalyzeColumn(values)
		profiles = append(profiles, ColumnProfile{
			Name:             h,
			Type:             a.Type,
			AnalysisEligible: IsAnalysisEligible(values),
			Analysis:         a,
			Stats:            Stats(values),
		})
	}
	return profiles
}
