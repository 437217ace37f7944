package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
)

const DefaultSessionTTL = 30 * time.Minute

type AuthUseCase struct {
	users      ports.UserRepository
	sessions   ports.SessionRepository
	hasher     ports.PasswordHasher
	settings   ports.SettingsStore
	sync       syncNotifier
	guard      *loginGuard
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthUseCase(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	hasher ports.PasswordHasher,
	settings ports.SettingsStore,
	publisher ports.SyncPublisher,
	sessionTTL time.Duration,
) *AuthUseCase {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthUseCase{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		settings:   settings,
		sync:       syncNotifier{publisher: publisher},
		guard:      newLoginGuard(),
		sessionTTL: sessionTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	if _, err := uc.users.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.NewUserError(domain.ErrConflict, "Email đã tồn tại")
	} else if !domain.IsKind(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	now := uc.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	uc.sync.notify(ctx, domain.SyncKindUser, user.ID, user.ID, user)
	return user, nil
}

// Login verifies credentials under the lockout policy from the admin settings
// and opens a session.
func (uc *AuthUseCase) Login(ctx context.Context, in domain.LoginInput) (*domain.Session, *domain.User, error) {
	settings := loadSettings(ctx, uc.settings)
	if settings.MaintenanceMode {
		return nil, nil, domain.NewUserError(domain.ErrUnavailable, "Hệ thống đang trong chế độ bảo trì. Vui lòng thử lại sau.")
	}

	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, nil, domain.NewUserError(domain.ErrInvalidInput, "Vui lòng nhập email và mật khẩu")
	}
	now := uc.now()
	if uc.guard.locked(email, now) {
		return nil, nil, domain.NewUserError(domain.ErrLocked, fmt.Sprintf(
			"Tài khoản đã bị khóa do đăng nhập sai quá nhiều lần. Vui lòng thử lại sau %d phút.",
			settings.LockoutDurationMinutes))
	}

	user, err := uc.users.GetUserByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, nil, domain.NewUserError(domain.ErrUnauthorized, "Email không tồn tại trong hệ thống")
		}
		return nil, nil, fmt.Errorf("lookup user by email: %w", err)
	}

	ok, err := uc.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		lockout := time.Duration(settings.LockoutDurationMinutes) * time.Minute
		failures, lockedNow := uc.guard.fail(email, now, settings.LoginAttempts, lockout)
		if lockedNow {
			slog.Warn("login_locked", "email", email, "attempts", failures)
			return nil, nil, domain.NewUserError(domain.ErrLocked, fmt.Sprintf(
				"Đăng nhập sai %d lần. Tài khoản đã bị khóa trong %d phút.",
				settings.LoginAttempts, settings.LockoutDurationMinutes))
		}
		return nil, nil, domain.NewUserError(domain.ErrUnauthorized, fmt.Sprintf(
			"Mật khẩu không đúng. Còn %d lần thử.", settings.LoginAttempts-failures))
	}
	if !user.IsActive {
		return nil, nil, domain.NewUserError(domain.ErrForbidden, "Tài khoản đã bị vô hiệu hóa")
	}
	uc.guard.reset(email)

	ttl := uc.sessionTTL
	if settings.SessionTimeoutMinutes > 0 {
		ttl = time.Duration(settings.SessionTimeoutMinutes) * time.Minute
	}
	session := domain.Session{
		Token:     newSessionToken(),
		UserID:    user.ID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := uc.sessions.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := uc.users.UpdateUser(ctx, user); err != nil {
		slog.Warn("last_login_update_failed", "user_id", user.ID, "error", err)
	}
	uc.sync.notify(ctx, domain.SyncKindUser, user.ID, user.ID, user)
	return &session, user, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := uc.sessions.DeleteSession(ctx, token); err != nil && !domain.IsKind(err, domain.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to an active user.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.NewUserError(domain.ErrUnauthorized, "Vui lòng đăng nhập")
	}
	session, err := uc.sessions.GetSession(ctx, token)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, domain.NewUserError(domain.ErrUnauthorized, "Phiên đăng nhập không hợp lệ")
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !uc.now().Before(session.ExpiresAt) {
		if err := uc.sessions.DeleteSession(ctx, token); err != nil {
			slog.Warn("session_delete_failed", "error", err)
		}
		return nil, domain.NewUserError(domain.ErrUnauthorized, "Phiên đăng nhập đã hết hạn")
	}
	user, err := uc.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, domain.NewUserError(domain.ErrUnauthorized, "Phiên đăng nhập không hợp lệ")
		}
		return nil, fmt.Errorf("get session user: %w", err)
	}
	if !user.IsActive {
		return nil, domain.NewUserError(domain.ErrForbidden, "Tài khoản đã bị vô hiệu hóa")
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator or promotes an existing
// account with the same email.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ensure admin", errors.New("admin email and password are required"))
	}
	existing, err := uc.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin && existing.IsActive {
			return existing, nil
		}
		existing.IsAdmin = true
		existing.IsActive = true
		existing.UpdatedAt = uc.now()
		if err := uc.users.UpdateUser(ctx, existing); err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
		uc.sync.notify(ctx, domain.SyncKindUser, existing.ID, existing.ID, existing)
		return existing, nil
	case !domain.IsKind(err, domain.ErrNotFound):
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now()
	admin := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Administrator",
		IsAdmin:      true,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.CreateUser(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	uc.sync.notify(ctx, domain.SyncKindUser, admin.ID, admin.ID, admin)
	slog.Info("admin_created", "email", email)
	return admin, nil
}

// PurgeSessions removes expired sessions.
func (uc *AuthUseCase) PurgeSessions(ctx context.Context) (int64, error) {
	n, err := uc.sessions.DeleteExpiredSessions(ctx, uc.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sessionTokenBytes is the entropy of a session token; tokens are hex.
const sessionTokenBytes = 32

func newSessionToken() string {
	b := make([]byte, sessionTokenBytes)
	// rand.Read never returns an error.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// loadSettings never fails; an unreadable store yields the defaults.
func loadSettings(ctx context.Context, store ports.SettingsStore) domain.Settings {
	if store == nil {
		return domain.DefaultSettings()
	}
	s, err := store.Load(ctx)
	if err != nil {
		slog.Warn("settings_default_used", "error", err)
		return domain.DefaultSettings()
	}
	return s.Normalize()
}

// loginGuard counts failed logins per email and locks the email once the
// limit is reached.
type loginGuard struct {
	mu      sync.Mutex
	entries map[string]*loginAttempts
}

type loginAttempts struct {
	failures    int
	lockedUntil time.Time
}

func newLoginGuard() *loginGuard {
	return &loginGuard{entries: make(map[string]*loginAttempts)}
}

func (g *loginGuard) locked(email string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[email]
	if !ok || e.lockedUntil.IsZero() {
		return false
	}
	if now.Before(e.lockedUntil) {
		return true
	}
	delete(g.entries, email)
	return false
}

// fail records a failure and reports the running count and whether this
// failure triggered the lock.
func (g *loginGuard) fail(email string, now time.Time, limit int, lockout time.Duration) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[email]
	if !ok {
		e = &loginAttempts{}
		g.entries[email] = e
	}
	e.failures++
	if e.failures >= limit {
		e.lockedUntil = now.Add(lockout)
		return e.failures, true
	}
	return e.failures, false
}

func (g *loginGuard) reset(email string) {
	g.mu.Lock()
	delete(g.entries, email)
	g.mu.Unlock()
}
