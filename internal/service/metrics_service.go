package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Schedule generation outcomes used as metric labels.
const (
	OutcomeFound      = "found"
	OutcomeInfeasible = "infeasible"
	OutcomeTooLarge   = "too_large"
	OutcomeTimeout    = "timeout"
	OutcomeInvalid    = "invalid"
	OutcomeError      = "error"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	generations     *prometheus.CounterVec
	generationTime  prometheus.Observer
	candidates      prometheus.Observer
	feasible        prometheus.Observer
	skipped         prometheus.Counter
	runLogWrites    *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_cache_latency_seconds",
		Help:    "Latency for schedule cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_cache_write_seconds",
		Help:    "Latency for schedule cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_cache_lookups_total",
		Help: "Schedule cache lookups by result",
	}, []string{"result"})

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generations_total",
		Help: "Schedule generations by outcome",
	}, []string{"outcome"})

	generationTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_duration_seconds",
		Help:    "Wall time spent in the scheduling engine",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	})

	candidates := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_candidates",
		Help:    "Candidate assignments examined per generation",
		Buckets: prometheus.ExponentialBuckets(1, 8, 8),
	})

	feasible := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_feasible_candidates",
		Help:    "Feasible assignments found per generation",
		Buckets: prometheus.ExponentialBuckets(1, 8, 8),
	})

	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_constraints_skipped_total",
		Help: "Constraint records ignored because they could not be decoded",
	})

	runLogWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_run_log_writes_total",
		Help: "Schedule run audit writes by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups,
		generations, generationTime, candidates, feasible, skipped, runLogWrites, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		generations:     generations,
		generationTime:  generationTime,
		candidates:      candidates,
		feasible:        feasible,
		skipped:         skipped,
		runLogWrites:    runLogWrites,
	}
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveGeneration records one engine run.
func (m *MetricsService) ObserveGeneration(outcome string, candidates, feasible int, duration time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
	m.generationTime.Observe(duration.Seconds())
	if outcome == OutcomeFound || outcome == OutcomeInfeasible {
		m.candidates.Observe(float64(candidates))
		m.feasible.Observe(float64(feasible))
	}
}

// AddSkippedConstraints counts constraint records that were ignored.
func (m *MetricsService) AddSkippedConstraints(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skipped.Add(float64(n))
}

// RecordRunLogWrite counts audit writes.
func (m *MetricsService) RecordRunLogWrite(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.runLogWrites.WithLabelValues("error").Inc()
		return
	}
	m.runLogWrites.WithLabelValues("ok").Inc()
}
