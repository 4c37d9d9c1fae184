package analysis

import (
	"fmt"
	"math"

	"sheetlens/domain/core"
	"sheetlens/domain/insight"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	MinAnomalySamples = 5
	// AnomalyThreshold is the z-score a value must exceed to be flagged.
	AnomalyThreshold     = 2.0
	MaxReportedAnomalies = 10
)

// Anomaly is one flagged value. Index refers to the coerced numeric sequence.
type Anomaly struct {
	Index            int     `json:"index"`
	Value            float64 `json:"value"`
	ZScore           float64 `json:"z_score"`
	DeviationPercent float64 `json:"deviation_percent"`
	TailProbability  float64 `json:"tail_probability"`
}

// AnomalyResult is the payload of an anomaly insight. AnomalyCount is the
// full count; Anomalies holds at most the first MaxReportedAnomalies.
type AnomalyResult struct {
	Column       string         `json:"column"`
	Mean         float64        `json:"mean"`
	StdDev       float64        `json:"std_dev"`
	Threshold    float64        `json:"threshold"`
	AnomalyCount int            `json:"anomaly_count"`
	Anomalies    []Anomaly      `json:"anomalies"`
	Notes        []insight.Note `json:"insights"`
}

// DetectAnomalies flags values whose population z-score exceeds the threshold.
// A constant column has no anomalies.
func DetectAnomalies(values []interface{}, column string) (*AnomalyResult, error) {
	nums := NumericValues(values)
	if len(nums) < MinAnomalySamples {
		return nil, core.NewInsufficientDataError(fmt.Sprintf(
			"anomaly detection on %q needs at least %d numeric values, found %d", column, MinAnomalySamples, len(nums)))
	}

	mean, stdDev := stat.PopMeanStdDev(nums, nil)
	r := &AnomalyResult{
		Column:    column,
		Mean:      round2(mean),
		StdDev:    round2(stdDev),
		Threshold: AnomalyThreshold,
		Anomalies: []Anomaly{},
		Notes:     []insight.Note{},
	}

	if stdDev > 0 {
		for i, v := range nums {
			z := math.Abs(v-mean) / stdDev
			if z <= AnomalyThreshold {
				continue
			}
			r.AnomalyCount++
			if len(r.Anomalies) >= MaxReportedAnomalies {
				continue
			}
			deviation := 0.0
			if mean != 0 {
				deviation = (v - mean) / mean * 100
			}
			r.Anomalies = append(r.Anomalies, Anomaly{
				Index:            i,
				Value:            v,
				ZScore:           round2(z),
				DeviationPercent: round2(deviation),
				TailProbability:  2 * distuv.UnitNormal.Survival(z),
			})
		}
	}

	if r.AnomalyCount > 0 {
		r.Notes = append(r.Notes, insight.Note{
			Type:     "anomaly_detected",
			Message:  fmt.Sprintf("%d values exceed %g standard deviations from mean.", r.AnomalyCount, AnomalyThreshold),
			Severity: insight.SeverityWarning,
		})
	}
	return r, nil
}

// Record converts the result into an insight record.
func (r *AnomalyResult) Record() insight.Record {
	content := fmt.Sprintf("No significant anomalies detected in %q. Data appears consistent.", r.Column)
	if r.AnomalyCount > 0 {
		content = fmt.Sprintf("Detected %d potential anomalies in %q that deviate significantly from the mean.", r.AnomalyCount, r.Column)
	}
	return insight.Record{
		Kind:    insight.KindAnomaly,
		Title:   "Anomaly Detection: " + r.Column,
		Content: content,
		Data:    r,
	}
}
