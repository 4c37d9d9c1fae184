package analysis

// ColumnType is the inferred type of a column
type ColumnType string

const (
	ColumnNumeric ColumnType = "numeric"
	ColumnDate    ColumnType = "date"
	ColumnText    ColumnType = "text"
	ColumnEmpty   ColumnType = "empty"
)

// Classification thresholds. The strict type thresholds and the looser
// analysis eligibility threshold are separate behaviors.
const (
	NumericTypeThreshold         = 0.8
	DateTypeThreshold            = 0.8
	AnalysisEligibilityThreshold = 0.7
)

// TypeAnalysis holds the counts behind a classification.
type TypeAnalysis struct {
	TotalCount   int        `json:"total_count"`
	ValidCount   int        `json:"valid_count"`
	NumericCount int        `json:"numeric_count"`
	DateCount    int        `json:"date_count"`
	NumericRatio float64    `json:"numeric_ratio"`
	DateRatio    float64    `json:"date_ratio"`
	Type         ColumnType `json:"type"`
}

// AnalyzeColumn counts valid, numeric and date values and picks a type.
// Ratios use valid values (non-nil, non-empty) as the denominator, and both
// thresholds are exclusive.
func AnalyzeColumn(values []interface{}) TypeAnalysis {
	a := TypeAnalysis{TotalCount: len(values)}
	for _, v := range values {
		if !isValid(v) {
			continue
		}
		a.ValidCount++
		if _, ok := ParseNumeric(v); ok {
			a.NumericCount++
		}
		if _, ok := ParseDate(v); ok {
			a.DateCount++
		}
	}

	if a.ValidCount == 0 {
		a.Type = ColumnEmpty
		return a
	}

	a.NumericRatio = float64(a.NumericCount) / float64(a.ValidCount)
	a.DateRatio = float64(a.DateCount) / float64(a.ValidCount)

	switch {
	case a.NumericRatio > NumericTypeThreshold:
		a.Type = ColumnNumeric
	case a.DateRatio > DateTypeThreshold:
		a.Type = ColumnDate
	default:
		a.Type = ColumnText
	}
	return a
}

// Classify infers the type of a column value series.
func Classify(values []interface{}) ColumnType {
	return AnalyzeColumn(values).Type
}

// IsAnalysisEligible reports whether more than 70% of all cells in the series,
// blanks included, parse as numbers.
func IsAnalysisEligible(values []interface{}) bool {
	if len(values) == 0 {
		return false
	}
	count := 0
	for _, v := range values {
		if _, ok := ParseNumeric(v); ok {
			count++
		}
	}
	return float64(count)/float64(len(values)) > AnalysisEligibilityThreshold
}
