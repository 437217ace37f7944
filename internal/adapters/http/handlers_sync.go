package httpadapter

import (
	"net/http"

	"github.com/healthfirst/homecare/internal/core/domain"
)

func (rt *Router) syncCollection(kind domain.SyncKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rt.services.Sync == nil {
			writeError(w, r, errServiceUnavailable())
			return
		}
		docs, err := rt.services.Sync.Collection(r.Context(), kind)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":         true,
			kind.Collection(): docs,
			"total":           len(docs),
		})
	}
}

func (rt *Router) syncStatistics(w http.ResponseWriter, r *http.Request) {
	if rt.services.Sync == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	stats, err := rt.services.Sync.Statistics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "statistics": stats})
}

// ownerOrAdmin reports whether the caller may read the history of userID.
func ownerOrAdmin(r *http.Request, userID string) bool {
	user := userFromContext(r.Context())
	return user != nil && (user.IsAdmin || user.ID == userID)
}

func (rt *Router) syncUserHistory(w http.ResponseWriter, r *http.Request) {
	rt.writeHistory(w, r, rt.services.Sync != nil, func(id string) (any, int, error) {
		docs, err := rt.services.Sync.UserHistory(r.Context(), id)
		return docs, len(docs), err
	})
}

func (rt *Router) syncDiagnosisHistory(w http.ResponseWriter, r *http.Request) {
	rt.writeHistory(w, r, rt.services.Sync != nil, func(id string) (any, int, error) {
		docs, err := rt.services.Sync.DiagnosisHistory(r.Context(), id)
		return docs, len(docs), err
	})
}

func (rt *Router) writeHistory(w http.ResponseWriter, r *http.Request, available bool, load func(id string) (any, int, error)) {
	if !available {
		writeError(w, r, errServiceUnavailable())
		return
	}
	id := r.PathValue("id")
	if !ownerOrAdmin(r, id) {
		writeError(w, r, domain.NewUserError(domain.ErrForbidden, "Unauthorized"))
		return
	}
	history, total, err := load(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "history": history, "total": total})
}

func (rt *Router) saveDiagnosis(w http.ResponseWriter, r *http.Request) {
	if rt.services.Sync == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	var in domain.SaveDiagnosisInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := rt.services.Sync.SaveDiagnosis(r.Context(), userFromContext(r.Context()).ID, in)
	if err != nil {
		if domain.IsKind(err, domain.ErrTemporary) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Không thể lưu kết quả chẩn đoán"})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Kết quả chẩn đoán đã được lưu vào hồ sơ",
		"diagnosis": saved,
	})
}
