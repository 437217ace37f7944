package httpadapter

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/healthfirst/homecare/internal/core/domain"
)

const sessionCookieName = "hf_session"

type userContextKey struct{}

func userFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey{}).(*domain.User)
	return user
}

// sessionToken reads the session from the cookie, then from a bearer header.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(headerValue string) string {
	headerValue = strings.TrimSpace(headerValue)
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(headerValue, bearerPrefix))
}

func (rt *Router) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rt.services.Auth == nil {
			writeError(w, r, errServiceUnavailable())
			return
		}
		user, err := rt.services.Auth.Authenticate(r.Context(), sessionToken(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey{}, user)))
	}
}

func (rt *Router) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return rt.requireUser(func(w http.ResponseWriter, r *http.Request) {
		if user := userFromContext(r.Context()); user == nil || !user.IsAdmin {
			writeError(w, r, domain.NewUserError(domain.ErrForbidden, "Unauthorized"))
			return
		}
		next(w, r)
	})
}

func (rt *Router) register(w http.ResponseWriter, r *http.Request) {
	if rt.services.Auth == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	var in domain.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := rt.services.Auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Đăng ký thành công! Vui lòng đăng nhập.",
		"user":    user,
	})
}

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	if rt.services.Auth == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	var in domain.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	session, user, err := rt.services.Auth.Login(r.Context(), in)
	if err != nil {
		rt.recordLogin(loginOutcome(err))
		writeError(w, r, err)
		return
	}
	rt.recordLogin("success")

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   rt.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Đăng nhập thành công",
		"user":       domain.NewUserView(user),
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
	})
}

func (rt *Router) logout(w http.ResponseWriter, r *http.Request) {
	if rt.services.Auth == nil {
		writeError(w, r, errServiceUnavailable())
		return
	}
	if token := sessionToken(r); token != "" {
		if err := rt.services.Auth.Logout(r.Context(), token); err != nil {
			writeError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   rt.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Đã đăng xuất"})
}

func (rt *Router) recordLogin(outcome string) {
	if rt.metrics != nil {
		rt.metrics.RecordLogin(outcome)
	}
}

func loginOutcome(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrLocked):
		return "locked"
	case domain.IsKind(err, domain.ErrForbidden):
		return "inactive"
	case domain.IsKind(err, domain.ErrUnavailable):
		return "maintenance"
	case domain.IsKind(err, domain.ErrUnauthorized):
		return "rejected"
	default:
		return "error"
	}
}
