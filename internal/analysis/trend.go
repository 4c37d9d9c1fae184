package analysis

import (
	"fmt"

	"sheetlens/domain/core"
	"sheetlens/domain/insight"

	"github.com/montanaflynn/stats"
)

// TrendDirection classifies a numeric sequence
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

const (
	MinTrendSamples = 3
	// trendDominance is how many times more steps one direction needs over
	// the other to be called a trend.
	trendDominance = 1.5
	// HighVolatility is the volatility percentage above which variability
	// is reported as high.
	HighVolatility = 50.0
)

// TrendResult is the payload of a trend insight.
type TrendResult struct {
	Column     string         `json:"column"`
	Direction  TrendDirection `json:"direction"`
	Increases  int            `json:"increases"`
	Decreases  int            `json:"decreases"`
	Strength   float64        `json:"strength"`
	Min        float64        `json:"min"`
	Max        float64        `json:"max"`
	Average    float64        `json:"average"`
	Range      float64        `json:"range"`
	Volatility float64        `json:"volatility"`
	Notes      []insight.Note `json:"insights"`
}

// DetectTrend classifies the ordered numeric values of a column. Strength is
// the share of consecutive steps that moved in the detected direction.
func DetectTrend(values []interface{}, column string) (*TrendResult, error) {
	nums := NumericValues(values)
	if len(nums) < MinTrendSamples {
		return nil, core.NewInsufficientDataError(fmt.Sprintf(
			"trend analysis of %q needs at least %d numeric values, found %d", column, MinTrendSamples, len(nums)))
	}

	r := &TrendResult{Column: column, Direction: TrendStable}
	for i := 1; i < len(nums); i++ {
		switch {
		case nums[i] > nums[i-1]:
			r.Increases++
		case nums[i] < nums[i-1]:
			r.Decreases++
		}
	}

	steps := float64(len(nums) - 1)
	switch {
	case float64(r.Increases) > float64(r.Decreases)*trendDominance:
		r.Direction = TrendIncreasing
		r.Strength = round2(float64(r.Increases) / steps * 100)
	case float64(r.Decreases) > float64(r.Increases)*trendDominance:
		r.Direction = TrendDecreasing
		r.Strength = round2(float64(r.Decreases) / steps * 100)
	}

	data := stats.Float64Data(nums)
	r.Min, _ = stats.Min(data)
	r.Max, _ = stats.Max(data)
	avg, _ := stats.Mean(data)
	r.Average = round2(avg)
	r.Range = r.Max - r.Min
	if avg != 0 {
		r.Volatility = round2(r.Range / avg * 100)
	}

	variability := "moderate"
	if r.Volatility > HighVolatility {
		variability = "high"
	}
	r.Notes = []insight.Note{
		{
			Type:    "trend_direction",
			Message: fmt.Sprintf("Data is %s with %.1f%% consistency.", r.Direction, r.Strength),
		},
		{
			Type:    "volatility",
			Message: fmt.Sprintf("Volatility is %.1f%%, indicating %s variability.", r.Volatility, variability),
		},
	}
	return r, nil
}

// Record converts the result into an insight record.
func (r *TrendResult) Record() insight.Record {
	return insight.Record{
		Kind:    insight.KindTrend,
		Title:   "Trend Analysis: " + r.Column,
		Content: fmt.Sprintf("The column %q shows a %s trend over the dataset.", r.Column, r.Direction),
		Data:    r,
	}
}
