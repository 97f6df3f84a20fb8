package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordAnalysis("food", "json")
	m.RecordAnalysis("food", "json")
	m.RecordAnalysis("posture", "fallback")
	m.RecordModelCall("food", nil, time.Second)
	m.RecordModelCall("food", errors.New("boom"), time.Second)
	m.RecordCache("posture", "hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analysisTotal.WithLabelValues("food", "json")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysisTotal.WithLabelValues("posture", "fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelRequests.WithLabelValues("food", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelRequests.WithLabelValues("food", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheOperations.WithLabelValues("posture", "hit")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordAnalysis("food", "json")
		m.RecordModelCall("food", nil, time.Second)
		m.RecordCache("food", "miss")
		m.RecordRequest("GET", "/health", 200, time.Millisecond)
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/ping", "200")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/ping",status="200"} 1`)
}
