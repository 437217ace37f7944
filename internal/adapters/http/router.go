package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/healthfirst/homecare/internal/config"
	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
	"github.com/healthfirst/homecare/internal/observability/metrics"
)

const maxRequestBodyBytes = 1 << 20

// Services are the inbound ports the router dispatches to. Nil services
// answer 503 on their routes.
type Services struct {
	Auth    ports.AuthService
	Assess  ports.AssessmentService
	Catalog ports.CatalogService
	Profile ports.ProfileService
	Contact ports.ContactService
	Admin   ports.AdminService
	Sync    ports.SyncReader
}

type Router struct {
	cfg      config.Config
	services Services
	metrics  *metrics.HTTPServerMetrics
	exporter ports.ReportExporter
}

func NewRouter(
	cfg config.Config,
	services Services,
	httpMetrics *metrics.HTTPServerMetrics,
	exporter ports.ReportExporter,
) *Router {
	return &Router{
		cfg:      cfg,
		services: services,
		metrics:  httpMetrics,
		exporter: exporter,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", serveOpenAPIDocument)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /auth/register", rt.register)
	mux.HandleFunc("POST /auth/login", rt.login)
	mux.HandleFunc("POST /auth/logout", rt.logout)

	mux.HandleFunc("POST /api/assess", rt.requireUser(rt.assess))
	mux.HandleFunc("GET /api/health-topics", rt.healthTopics)
	mux.HandleFunc("GET /api/user-health", rt.requireUser(rt.userHealth))
	mux.HandleFunc("POST /api/user-health", rt.requireUser(rt.updateUserHealth))
	mux.HandleFunc("POST /api/profile/update", rt.requireUser(rt.updateProfile))
	mux.HandleFunc("POST /api/contact", rt.submitContact)

	mux.HandleFunc("GET /api/ai/symptoms", rt.aiSymptoms)
	mux.HandleFunc("GET /api/ai/diseases", rt.aiDiseases)
	mux.HandleFunc("GET /api/ai/symptom-info/{symptom}", rt.aiSymptomInfo)
	mux.HandleFunc("POST /api/ai/quick-diagnosis", rt.quickDiagnosis)

	mux.HandleFunc("GET /api/sync/users", rt.requireAdmin(rt.syncCollection(domain.SyncKindUser)))
	mux.HandleFunc("GET /api/sync/assessments", rt.requireAdmin(rt.syncCollection(domain.SyncKindAssessment)))
	mux.HandleFunc("GET /api/sync/contacts", rt.requireAdmin(rt.syncCollection(domain.SyncKindContact)))
	mux.HandleFunc("GET /api/sync/statistics", rt.requireAdmin(rt.syncStatistics))
	mux.HandleFunc("GET /api/sync/user-history/{id}", rt.requireUser(rt.syncUserHistory))
	mux.HandleFunc("GET /api/sync/diagnosis-history/{id}", rt.requireUser(rt.syncDiagnosisHistory))
	mux.HandleFunc("POST /api/sync/save-diagnosis", rt.requireUser(rt.saveDiagnosis))

	mux.HandleFunc("GET /admin/dashboard", rt.requireAdmin(rt.adminDashboard))
	mux.HandleFunc("GET /admin/users", rt.requireAdmin(rt.adminUsers))
	mux.HandleFunc("POST /admin/users/{id}/toggle", rt.requireAdmin(rt.adminToggleUser))
	mux.HandleFunc("DELETE /admin/users/{id}", rt.requireAdmin(rt.adminDeleteUser))
	mux.HandleFunc("GET /admin/assessments", rt.requireAdmin(rt.adminAssessments))
	mux.HandleFunc("DELETE /admin/assessments/{id}", rt.requireAdmin(rt.adminDeleteAssessment))
	mux.HandleFunc("GET /admin/contacts", rt.requireAdmin(rt.adminContacts))
	mux.HandleFunc("POST /admin/contacts/{id}/status", rt.requireAdmin(rt.adminUpdateContactStatus))
	mux.HandleFunc("DELETE /admin/contacts/{id}", rt.requireAdmin(rt.adminDeleteContact))
	mux.HandleFunc("GET /admin/reports", rt.requireAdmin(rt.adminReports))
	mux.HandleFunc("GET /admin/settings", rt.requireAdmin(rt.adminSettings))
	mux.HandleFunc("POST /admin/settings", rt.requireAdmin(rt.adminUpdateSettings))

	var handler http.Handler = mux
	if rt.cfg.OpenAPIValidation {
		validator, err := newRequestValidator()
		if err != nil {
			slog.Error("openapi_validation_disabled", "error", err)
		} else {
			handler = validator.Middleware(handler)
		}
	}
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = corsMiddleware(handler, rt.cfg.CORSAllowedOrigins)
	handler = recoverMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewUserError(domain.ErrInvalidInput, "Dữ liệu gửi lên quá lớn")
		}
		if errors.Is(err, io.EOF) {
			return domain.NewUserError(domain.ErrInvalidInput, "Thiếu dữ liệu yêu cầu")
		}
		return domain.NewUserError(domain.ErrInvalidInput, "Dữ liệu JSON không hợp lệ")
	}
	return nil
}

func errServiceUnavailable() error {
	return domain.NewUserError(domain.ErrUnavailable, "Dịch vụ tạm thời không khả dụng")
}
