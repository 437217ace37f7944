package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/healthfirst/homecare/internal/core/domain"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/api/ai/symptom-info/fever": "/api/ai/symptom-info/{symptom}",
		"/admin/users/u-1/toggle":    "/admin/users/{id}/toggle",
		"/admin/users/u-1":           "/admin/users/{id}",
		"/admin/contacts/c-1/status": "/admin/contacts/{id}/status",
		"/api/sync/user-history/u-1": "/api/sync/user-history/{id}",
		"/api/assess":                "/api/assess",
		"/api/ai/symptom-info/":      "/api/ai/symptom-info/",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMiddlewareCountsRequests(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	h := m.Middleware("api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/users/u-9", nil))

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues("api", http.MethodGet, "/admin/users/{id}", "418"))
	if got != 1 {
		t.Fatalf("expected one counted request, got %v", got)
	}
}

func TestObserveTriageAndBreaker(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	m.ObserveTriage("fallback", domain.PrioritySelfCare, 2)
	m.ObserveTriage("keyword", domain.PriorityEmergency, 0)
	m.ObserveBreakerState("nats.publish", "open")

	if got := testutil.ToFloat64(m.triageTotal.WithLabelValues("api", "keyword", "emergency")); got != 1 {
		t.Fatalf("expected one keyword evaluation, got %v", got)
	}
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("api", "nats.publish")); got != 1 {
		t.Fatalf("expected open breaker gauge, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "homecare_triage_severity_score") {
		t.Fatalf("expected severity histogram in exposition")
	}
}

func TestWorkerMetrics(t *testing.T) {
	m := NewWorkerMetrics("worker")
	m.StartEvent()
	m.FinishEvent("assessments", 10*time.Millisecond, nil)
	m.StartEvent()
	m.FinishEvent("assessments", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.eventTotal.WithLabelValues("worker", "assessments", "error")); got != 1 {
		t.Fatalf("expected one failed event, got %v", got)
	}
	if got := testutil.ToFloat64(m.eventInFlight); got != 0 {
		t.Fatalf("expected no in-flight events, got %v", got)
	}
}
