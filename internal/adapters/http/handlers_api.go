package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/healthfirst/homecare/internal/core/domain"
)

func (rt *Router) assess(w http.ResponseWriter, r *http.Request) {
	if rt.services.Assess == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	var req domain.AssessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	// The profile always comes from the stored account.
	req.Profile = nil
	result, err := rt.services.Assess.Assess(r.Context(), userFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) healthTopics(w http.ResponseWriter, r *http.Request) {
	if rt.services.Catalog == nil {
		writeJSON(w, http.StatusOK, []domain.Topic{})
		return
	}
	writeJSON(w, http.StatusOK, rt.services.Catalog.Topics(r.Context()))
}

func (rt *Router) userHealth(w http.ResponseWriter, r *http.Request) {
	if rt.services.Profile == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	view, err := rt.services.Profile.Profile(r.Context(), userFromContext(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (rt *Router) updateUserHealth(w http.ResponseWriter, r *http.Request) {
	rt.applyProfileUpdate(w, r, "Thông tin sức khỏe đã được cập nhật thành công")
}

func (rt *Router) updateProfile(w http.ResponseWriter, r *http.Request) {
	rt.applyProfileUpdate(w, r, "Thông tin đã được cập nhật thành công!")
}

func (rt *Router) applyProfileUpdate(w http.ResponseWriter, r *http.Request, message string) {
	if rt.services.Profile == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	var update domain.ProfileUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, err)
		return
	}
	view, err := rt.services.Profile.UpdateProfile(r.Context(), userFromContext(r.Context()).ID, update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  message,
		"user":     view.User,
		"analysis": view.Analysis,
	})
}

func (rt *Router) submitContact(w http.ResponseWriter, r *http.Request) {
	if rt.services.Contact == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	var in domain.ContactInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := rt.services.Contact.SubmitContact(r.Context(), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Tin nhắn đã được gửi thành công!"})
}

func (rt *Router) aiSymptoms(w http.ResponseWriter, r *http.Request) {
	if rt.services.Catalog == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	symptoms, err := rt.services.Catalog.Symptoms(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "symptoms": symptoms, "total": len(symptoms)})
}

func (rt *Router) aiDiseases(w http.ResponseWriter, r *http.Request) {
	if rt.services.Catalog == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	diseases, err := rt.services.Catalog.Diseases(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "diseases": diseases, "total": len(diseases)})
}

func (rt *Router) aiSymptomInfo(w http.ResponseWriter, r *http.Request) {
	if rt.services.Catalog == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	info, err := rt.services.Catalog.SymptomInfo(r.Context(), r.PathValue("symptom"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "symptom_info": info})
}

// quickDiagnosisBody accepts symptoms either as comma-separated text or as a
// list of phrases.
type quickDiagnosisBody struct {
	Symptoms json.RawMessage `json:"symptoms"`
	Age      *int            `json:"age"`
	DaysSick *int            `json:"days_sick"`
}

func (b quickDiagnosisBody) request() (domain.QuickDiagnosisRequest, error) {
	req := domain.QuickDiagnosisRequest{Age: b.Age, DaysSick: b.DaysSick}
	if len(b.Symptoms) == 0 || string(b.Symptoms) == "null" {
		return req, nil
	}
	var text string
	if err := json.Unmarshal(b.Symptoms, &text); err == nil {
		req.Symptoms = []string{text}
		return req, nil
	}
	if err := json.Unmarshal(b.Symptoms, &req.Symptoms); err != nil {
		return req, domain.NewUserError(domain.ErrInvalidInput, "Danh sách triệu chứng không hợp lệ")
	}
	return req, nil
}

func (rt *Router) quickDiagnosis(w http.ResponseWriter, r *http.Request) {
	if rt.services.Assess == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	var body quickDiagnosisBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	req, err := body.request()
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := rt.services.Assess.QuickDiagnosis(r.Context(), req)
	if err != nil {
		if domain.IsKind(err, domain.ErrUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"success": false, "error": domain.UserMessage(err)})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": result})
}
