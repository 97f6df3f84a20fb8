// Package metrics holds the Prometheus collectors for HTTP traffic and the
// image analysis pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector the service exports. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	analysisTotal   *prometheus.CounterVec
	modelRequests   *prometheus.CounterVec
	modelDuration   *prometheus.HistogramVec
	cacheOperations *prometheus.CounterVec
}

// New registers the collectors on reg. Passing prometheus.NewRegistry()
// keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		analysisTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "image_analysis_total",
				Help: "Image analyses by task and by the stage that produced the result",
			},
			[]string{"task", "source"},
		),
		modelRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "model_requests_total",
				Help: "Generative model calls by task and outcome",
			},
			[]string{"task", "status"},
		),
		modelDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "model_request_duration_seconds",
				Help:    "Generative model call latency in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"task"},
		),
		cacheOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_cache_operations_total",
				Help: "Analysis result cache lookups by task and result",
			},
			[]string{"task", "result"},
		),
	}
}

// RecordRequest records one served HTTP request.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	m.httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	m.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
}

// RecordAnalysis counts a finished analysis. source is json, fallback,
// default or failed.
func (m *Metrics) RecordAnalysis(task, source string) {
	if m == nil {
		return
	}
	m.analysisTotal.WithLabelValues(task, source).Inc()
}

// RecordModelCall records the outcome and latency of one model call.
func (m *Metrics) RecordModelCall(task string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.modelRequests.WithLabelValues(task, status).Inc()
	m.modelDuration.WithLabelValues(task).Observe(duration.Seconds())
}

// RecordCache counts a cache lookup; result is hit, miss or error.
func (m *Metrics) RecordCache(task, result string) {
	if m == nil {
		return
	}
	m.cacheOperations.WithLabelValues(task, result).Inc()
}

// Middleware records every request that passes through the router. The
// matched route template is used as the path label to bound cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	if m == nil {
		h := promhttp.Handler()
		return gin.WrapH(h)
	}
	return gin.WrapH(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
