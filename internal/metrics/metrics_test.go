package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.UploadProcessed("completed")
	m.UploadProcessed("completed")
	m.UploadProcessed("failed")
	m.InsightsGenerated("trend", 3)
	m.InsightsGenerated("trend", 0)
	m.AnalysisFailed("INSUFFICIENT_DATA")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.uploads.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.insights.WithLabelValues("trend")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysisFailures.WithLabelValues("INSUFFICIENT_DATA")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.UploadProcessed("completed")
		m.ObserveParse(time.Second, true)
		m.ObserveRequest("GET", "/api/uploads", 200, time.Millisecond)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "", 404, 5*time.Millisecond)
	m.ObserveParse(20*time.Millisecond, false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sheetlens_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, string(body), "sheetlens_workbook_parse_duration_seconds_count")
}
