package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
)

const (
	dashboardRecent = 5
	reportMonths    = 6
)

type AdminUseCase struct {
	users       ports.UserRepository
	sessions    ports.SessionRepository
	assessments ports.AssessmentRepository
	contacts    ports.ContactRepository
	settings    ports.SettingsStore
	stats       ports.SyncReader
	sync        syncNotifier
	now         func() time.Time
}

func NewAdminUseCase(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	assessments ports.AssessmentRepository,
	contacts ports.ContactRepository,
	settings ports.SettingsStore,
	stats ports.SyncReader,
	publisher ports.SyncPublisher,
) *AdminUseCase {
	return &AdminUseCase{
		users:       users,
		sessions:    sessions,
		assessments: assessments,
		contacts:    contacts,
		settings:    settings,
		stats:       stats,
		sync:        syncNotifier{publisher: publisher},
		now:         timeNow,
	}
}

func (uc *AdminUseCase) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	users, err := uc.users.CountUsers(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	assessments, err := uc.assessments.CountAssessments(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("count assessments: %w", err)
	}
	newContacts, err := uc.contacts.CountContactsByStatus(ctx, domain.ContactStatusNew)
	if err != nil {
		return nil, fmt.Errorf("count new contacts: %w", err)
	}
	recentAssessments, err := uc.assessments.ListAssessments(ctx, dashboardRecent)
	if err != nil {
		return nil, fmt.Errorf("list recent assessments: %w", err)
	}
	recentContacts, err := uc.contacts.ListContacts(ctx, dashboardRecent)
	if err != nil {
		return nil, fmt.Errorf("list recent contacts: %w", err)
	}

	out := &domain.Dashboard{
		TotalUsers:        users,
		TotalAssessments:  assessments,
		NewContacts:       newContacts,
		RecentAssessments: recentAssessments,
		RecentContacts:    recentContacts,
	}
	if uc.stats != nil {
		stats, err := uc.stats.Statistics(ctx)
		if err != nil {
			slog.Warn("sync_statistics_unavailable", "error", err)
		} else {
			out.SyncStatistics = stats
		}
	}
	return out, nil
}

func (uc *AdminUseCase) Users(ctx context.Context) ([]domain.UserView, error) {
	users, err := uc.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.UserView, len(users))
	for i := range users {
		out[i] = domain.NewUserView(&users[i])
	}
	return out, nil
}

// ToggleUser flips the active flag of a non-admin account.
func (uc *AdminUseCase) ToggleUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsAdmin {
		return nil, domain.NewUserError(domain.ErrInvalidInput, "Không thể thay đổi trạng thái admin")
	}
	user.IsActive = !user.IsActive
	user.UpdatedAt = uc.now()
	if err := uc.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if !user.IsActive && uc.sessions != nil {
		if err := uc.sessions.DeleteUserSessions(ctx, user.ID); err != nil {
			slog.Warn("session_revoke_failed", "user_id", user.ID, "error", err)
		}
	}
	uc.sync.notify(ctx, domain.SyncKindUser, user.ID, user.ID, user)
	return user, nil
}

func (uc *AdminUseCase) DeleteUser(ctx context.Context, id string) error {
	user, err := uc.users.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user.IsAdmin {
		return domain.NewUserError(domain.ErrInvalidInput, "Không thể xóa tài khoản admin")
	}
	if uc.sessions != nil {
		if err := uc.sessions.DeleteUserSessions(ctx, id); err != nil {
			return fmt.Errorf("delete user sessions: %w", err)
		}
	}
	if err := uc.users.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	uc.sync.notify(ctx, domain.SyncKindUserDeleted, id, id, nil)
	return nil
}

func (uc *AdminUseCase) Assessments(ctx context.Context) ([]domain.Assessment, error) {
	out, err := uc.assessments.ListAssessments(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return out, nil
}

func (uc *AdminUseCase) DeleteAssessment(ctx context.Context, id string) error {
	if err := uc.assessments.DeleteAssessment(ctx, id); err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	return nil
}

func (uc *AdminUseCase) Contacts(ctx context.Context) ([]domain.Contact, error) {
	out, err := uc.contacts.ListContacts(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

func (uc *AdminUseCase) UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	if !status.Valid() {
		return domain.NewUserError(domain.ErrInvalidInput, "Trạng thái không hợp lệ")
	}
	if err := uc.contacts.UpdateContactStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	return nil
}

func (uc *AdminUseCase) DeleteContact(ctx context.Context, id string) error {
	if err := uc.contacts.DeleteContact(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// Report counts totals and the new users and assessments of the last six
// calendar months, oldest first.
func (uc *AdminUseCase) Report(ctx context.Context) (*domain.Report, error) {
	now := uc.now()
	users, err := uc.users.CountUsers(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	assessments, err := uc.assessments.CountAssessments(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("count assessments: %w", err)
	}
	contacts, err := uc.contacts.CountContactsByStatus(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}

	report := &domain.Report{
		TotalUsers:       users,
		TotalAssessments: assessments,
		TotalContacts:    contacts,
		Months:           make([]domain.MonthlyStat, 0, reportMonths),
		GeneratedAt:      now,
	}
	for _, start := range reportMonthStarts(now) {
		end := start.AddDate(0, 1, 0)
		u, err := uc.users.CountUsers(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("count users for %s: %w", start.Format("01/2006"), err)
		}
		a, err := uc.assessments.CountAssessments(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("count assessments for %s: %w", start.Format("01/2006"), err)
		}
		report.Months = append(report.Months, domain.MonthlyStat{
			Month:       start.Format("01/2006"),
			Users:       u,
			Assessments: a,
		})
	}
	return report, nil
}

func reportMonthStarts(now time.Time) []time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]time.Time, reportMonths)
	for i := range out {
		out[i] = first.AddDate(0, i-(reportMonths-1), 0)
	}
	return out
}

func (uc *AdminUseCase) Settings(ctx context.Context) (domain.Settings, error) {
	return loadSettings(ctx, uc.settings), nil
}

func (uc *AdminUseCase) UpdateSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if uc.settings == nil {
		return domain.Settings{}, domain.NewUserError(domain.ErrUnavailable, "Không thể lưu cài đặt")
	}
	settings = settings.Normalize()
	if err := uc.settings.Save(ctx, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	slog.Info("settings_updated", "maintenance_mode", settings.MaintenanceMode, "login_attempts", settings.LoginAttempts)
	return settings, nil
}
