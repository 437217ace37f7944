package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/healthfirst/homecare/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrForbidden):
		return http.StatusForbidden
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrConflict):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrLocked):
		return http.StatusLocked
	case domain.IsKind(err, domain.ErrUnavailable), domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and writes {"error": msg}. Localized user
// messages pass through; internal failures are logged and masked.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	message := domain.UserMessage(err)

	var ue *domain.UserError
	if !errors.As(err, &ue) {
		switch status {
		case http.StatusInternalServerError:
			message = "Lỗi hệ thống, vui lòng thử lại sau"
		case http.StatusNotFound:
			message = "Không tìm thấy dữ liệu"
		case http.StatusServiceUnavailable:
			message = "Dịch vụ tạm thời không khả dụng"
		}
	}
	if status >= http.StatusInternalServerError {
		slog.Error("http_handler_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": message})
}
