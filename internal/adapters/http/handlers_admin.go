package httpadapter

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/healthfirst/homecare/internal/core/domain"
)

func (rt *Router) adminDashboard(w http.ResponseWriter, r *http.Request) {
	if rt.services.Admin == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	dashboard, err := rt.services.Admin.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (rt *Router) adminUsers(w http.ResponseWriter, r *http.Request) {
	if rt.services.Admin == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	users, err := rt.services.Admin.Users(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "users": users, "total": len(users)})
}

func (rt *Router) adminToggleUser(w http.ResponseWriter, r *http.Request) {
	if rt.services.Admin == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	user, err := rt.services.Admin.ToggleUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	verb := "vô hiệu hóa"
	if user.IsActive {
		verb = "kích hoạt"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("Đã %s người dùng", verb),
		"is_active": user.IsActive,
	})
}

func (rt *Router) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	rt.adminDelete(w, r, "Đã xóa người dùng thành công", func(id string) error {
		return rt.services.Admin.DeleteUser(r.Context(), id)
	})
}

func (rt *Router) adminAssessments(w http.ResponseWriter, r *http.Request) {
	if rt.services.Admin == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	items, err := rt.services.Admin.Assessments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "assessments": items, "total": len(items)})
}

func (rt *Router) adminDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	rt.adminDelete(w, r, "Đã xóa đánh giá thành công", func(id string) error {
		return rt.services.Admin.DeleteAssessment(r.Context(), id)
	})
}

func (rt *Router) adminContacts(w http.ResponseWriter, r *http.Request) {
	if rt.services.Admin == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	items, err := rt.services.Admin.Contacts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "contacts": items, "total": len(items)})
}

func (rt *Router) adminUpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	if rt.services.Admin == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	status := domain.ContactStatus(strings.TrimSpace(body.Status))
	if err := rt.services.Admin.UpdateContactStatus(r.Context(), r.PathValue("id"), status); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Cập nhật trạng thái thành công"})
}

func (rt *Router) adminDeleteContact(w http.ResponseWriter, r *http.Request) {
	rt.adminDelete(w, r, "Đã xóa tin nhắn thành công", func(id string) error {
		return rt.services.Admin.DeleteContact(r.Context(), id)
	})
}

func (rt *Router) adminDelete(w http.ResponseWriter, r *http.Request, message string, del func(id string) error) {
	if rt.services.Admin == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	if err := del(r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": message})
}

// adminReports returns the report as JSON, or as a spreadsheet download
// with ?format=xlsx.
func (rt *Router) adminReports(w http.ResponseWriter, r *http.Request) {
	if rt.services.Admin == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	report, err := rt.services.Admin.Report(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" || format == "json" {
		writeJSON(w, http.StatusOK, report)
		return
	}
	if rt.exporter == nil || format != rt.exporter.FileExtension() {
		writeError(w, r, domain.NewUserError(domain.ErrInvalidInput, "Định dạng báo cáo không được hỗ trợ"))
		return
	}

	var buf bytes.Buffer
	if err := rt.exporter.Export(&buf, *report); err != nil {
		writeError(w, r, fmt.Errorf("export report: %w", err))
		return
	}
	filename := fmt.Sprintf("bao-cao-%s.%s", report.GeneratedAt.Format("2006-01-02"), rt.exporter.FileExtension())
	w.Header().Set("Content-Type", rt.exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (rt *Router) adminSettings(w http.ResponseWriter, r *http.Request) {
	if rt.services.Admin == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	settings, err := rt.services.Admin.Settings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": settings})
}

func (rt *Router) adminUpdateSettings(w http.ResponseWriter, r *http.Request) {
	if rt.services.Admin == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	current, err := rt.services.Admin.Settings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Absent fields keep their current values.
	if err := decodeJSON(w, r, &current); err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := rt.services.Admin.UpdateSettings(r.Context(), current)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Cài đặt đã được cập nhật và áp dụng thành công!",
		"settings": saved,
	})
}
