package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// EnsureAdmin creates or promotes the configured admin account when a
// password is configured.
func (a *App) EnsureAdmin(ctx context.Context) error {
	if strings.TrimSpace(a.Config.AdminPassword) == "" {
		return nil
	}
	admin, err := a.AuthUC.EnsureAdmin(ctx, a.Config.AdminEmail, a.Config.AdminPassword)
	if err != nil {
		return err
	}
	slog.Info("admin_account_ready", "user_id", admin.ID, "email", admin.Email)
	return nil
}

// RunSessionPurge deletes expired sessions every interval until ctx ends.
func (a *App) RunSessionPurge(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.AuthUC.PurgeSessions(ctx)
			if err != nil {
				slog.Warn("session_purge_failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("sessions_purged", "count", n)
			}
		}
	}
}
