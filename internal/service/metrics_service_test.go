package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceExposesSchedulerMetrics(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/schedule", http.StatusOK, 5*time.Millisecond)
	m.ObserveGeneration(OutcomeFound, 12, 3, time.Millisecond)
	m.ObserveGeneration(OutcomeTimeout, 0, 0, time.Second)
	m.AddSkippedConstraints(2)
	m.AddSkippedConstraints(0)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.generations.WithLabelValues(OutcomeFound)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.generations.WithLabelValues(OutcomeTimeout)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.skipped))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "schedule_generations_total")
	assert.Contains(t, w.Body.String(), `http_requests_total{method="POST",path="/api/v1/schedule",status="200"} 1`)
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest(http.MethodGet, "/", 200, time.Millisecond)
		m.RecordCacheOperation(true, time.Millisecond)
		m.ObserveCacheWrite(time.Millisecond)
		m.ObserveGeneration(OutcomeFound, 1, 1, time.Millisecond)
		m.AddSkippedConstraints(1)
		m.RecordRunLogWrite(nil)
	})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
