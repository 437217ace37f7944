package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/healthfirst/homecare/internal/core/domain"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry
	service  string

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	triageTotal    *prometheus.CounterVec
	triageSeverity *prometheus.HistogramVec
	loginTotal     *prometheus.CounterVec

	retryTotal   *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homecare",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "homecare",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "homecare",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	triageTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homecare",
			Subsystem: "triage",
			Name:      "evaluations_total",
			Help:      "Triage evaluations by path (model, fallback, keyword) and priority.",
		},
		[]string{"service", "path", "priority"},
	)
	triageSeverity := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "homecare",
			Subsystem: "triage",
			Name:      "severity_score",
			Help:      "Distribution of predictor severity scores.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		[]string{"service", "path"},
	)
	loginTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homecare",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		},
		[]string{"service", "outcome"},
	)
	retryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homecare",
			Subsystem: "resilience",
			Name:      "retries_total",
			Help:      "Retried sync-path operations.",
		},
		[]string{"service", "operation"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "homecare",
			Subsystem: "resilience",
			Name:      "breaker_open",
			Help:      "1 while the operation's circuit breaker is not closed.",
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		triageTotal,
		triageSeverity,
		loginTotal,
		retryTotal,
		breakerState,
	)

	return &HTTPServerMetrics{
		registry:        registry,
		service:         service,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		triageTotal:     triageTotal,
		triageSeverity:  triageSeverity,
		loginTotal:      loginTotal,
		retryTotal:      retryTotal,
		breakerState:    breakerState,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// pathTemplates collapse id-bearing paths into one label value each.
var pathTemplates = []struct {
	prefix   string
	template string
}{
	{"/api/ai/symptom-info/", "/api/ai/symptom-info/{symptom}"},
	{"/api/sync/user-history/", "/api/sync/user-history/{id}"},
	{"/api/sync/diagnosis-history/", "/api/sync/diagnosis-history/{id}"},
	{"/admin/assessments/", "/admin/assessments/{id}"},
}

func normalizePath(path string) string {
	for _, t := range pathTemplates {
		if strings.HasPrefix(path, t.prefix) && len(path) > len(t.prefix) {
			return t.template
		}
	}
	switch {
	case strings.HasPrefix(path, "/admin/users/") && strings.HasSuffix(path, "/toggle"):
		return "/admin/users/{id}/toggle"
	case strings.HasPrefix(path, "/admin/users/"):
		return "/admin/users/{id}"
	case strings.HasPrefix(path, "/admin/contacts/") && strings.HasSuffix(path, "/status"):
		return "/admin/contacts/{id}/status"
	case strings.HasPrefix(path, "/admin/contacts/"):
		return "/admin/contacts/{id}"
	default:
		return path
	}
}

// ObserveTriage implements the triage observer port.
func (m *HTTPServerMetrics) ObserveTriage(path string, priority domain.Priority, severity int) {
	if path == "" {
		path = "unknown"
	}
	m.triageTotal.WithLabelValues(m.service, path, string(priority)).Inc()
	if path != "keyword" {
		m.triageSeverity.WithLabelValues(m.service, path).Observe(float64(severity))
	}
}

func (m *HTTPServerMetrics) RecordLogin(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.loginTotal.WithLabelValues(m.service, outcome).Inc()
}

func (m *HTTPServerMetrics) ObserveRetry(operation string) {
	m.retryTotal.WithLabelValues(m.service, operation).Inc()
}

func (m *HTTPServerMetrics) ObserveBreakerState(operation, state string) {
	open := 0.0
	if state != "closed" {
		open = 1
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(open)
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
