package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "curriculum_http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curriculum_http_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	dbQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "curriculum_db_query_duration_seconds",
		Help:    "Duration of database queries.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation", "table"})

	reconcileTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curriculum_outline_reconcile_total",
		Help: "Outline reconciliation outcomes.",
	}, []string{"result"})

	progressSamplesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curriculum_progress_samples_total",
		Help: "Watch sample outcomes (persisted, throttled, dropped).",
	}, []string{"outcome"})

	completionEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "curriculum_lecture_completions_total",
		Help: "First-time lecture completion events.",
	})

	gateDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curriculum_gate_decisions_total",
		Help: "Prerequisite gate decisions.",
	}, []string{"decision"})
)

// Middleware collects request duration and count metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// RecordDBQuery records a database query duration.
func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordReconcile records the outcome of an outline reconciliation.
func RecordReconcile(result string) {
	reconcileTotal.WithLabelValues(result).Inc()
}

// RecordProgressSample records a watch sample outcome.
func RecordProgressSample(outcome string) {
	progressSamplesTotal.WithLabelValues(outcome).Inc()
}

// RecordCompletion records a first-time lecture completion.
func RecordCompletion() {
	completionEventsTotal.Inc()
}

// RecordGateDecision records a prerequisite gate decision.
func RecordGateDecision(decision string) {
	gateDecisionsTotal.WithLabelValues(decision).Inc()
}
