package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sheetlens"

// Metrics holds the collectors exported on the ops listener. Each instance
// owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	uploads          *prometheus.CounterVec
	parseDuration    *prometheus.HistogramVec
	insights         *prometheus.CounterVec
	analysisFailures *prometheus.CounterVec
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploaded workbooks by final status.",
		}, []string{"status"}),
		parseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workbook_parse_duration_seconds",
			Help:      "Time spent parsing uploaded workbooks.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"success"}),
		insights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_generated_total",
			Help:      "Insights persisted by kind.",
		}, []string{"kind"}),
		analysisFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_failures_total",
			Help:      "Insight generation requests that failed, by error code.",
		}, []string{"code"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.uploads,
		m.parseDuration,
		m.insights,
		m.analysisFailures,
		m.requests,
		m.requestDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) UploadProcessed(status string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveParse(d time.Duration, success bool) {
	if m == nil {
		return
	}
	m.parseDuration.WithLabelValues(strconv.FormatBool(success)).Observe(d.Seconds())
}

func (m *Metrics) InsightsGenerated(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.insights.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) AnalysisFailed(code string) {
	if m == nil {
		return
	}
	m.analysisFailures.WithLabelValues(code).Inc()
}

// ObserveRequest records one served API request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
