package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// ColumnStats are descriptive statistics for a column. Numeric columns fill
// Min through Sum; the rest fill UniqueCount.
type ColumnStats struct {
	Numeric     bool    `json:"numeric"`
	Count       int     `json:"count"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Sum         float64 `json:"sum"`
	UniqueCount int     `json:"unique_count"`
}

// Stats computes descriptive statistics. A series with at least one numeric
// value gets numeric statistics over its numeric values; otherwise the valid
// values are counted and deduplicated.
func Stats(values []interface{}) ColumnStats {
	nums := NumericValues(values)
	if len(nums) > 0 {
		return numericStats(nums)
	}

	unique := make(map[interface{}]struct{})
	count := 0
	for _, v := range values {
		if !isValid(v) {
			continue
		}
		count++
		unique[uniqueKey(v)] = struct{}{}
	}
	return ColumnStats{Count: count, UniqueCount: len(unique)}
}

func numericStats(nums []float64) ColumnStats {
	data := stats.Float64Data(nums)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	mean, _ := stats.Mean(data)
	sum, _ := stats.Sum(data)

	return ColumnStats{
		Numeric: true,
		Count:   len(nums),
		Min:     min,
		Max:     max,
		Mean:    mean,
		Median:  LowerMedian(nums),
		Sum:     sum,
	}
}

// LowerMedian returns the middle element of the sorted values; for an even
// count it returns the lower of the two middle elements.
func LowerMedian(nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)
	return sorted[(len(sorted)-1)/2]
}

type timeKey int64

func uniqueKey(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return timeKey(val.UnixNano())
	case string, float64, bool:
		return v
	default:
		return fmtKey(fmt.Sprintf("%T:%v", val, val))
	}
}

type fmtKey string
