package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/healthfirst/homecare/internal/core/domain"
)

type adminFixture struct {
	uc          *AdminUseCase
	users       *userRepoFake
	sessions    *sessionRepoFake
	assessments *assessmentRepoFake
	contacts    *contactRepoFake
	settings    *settingsStoreFake
	pub         *publisherFake
}

func newAdminFixture(now time.Time) *adminFixture {
	f := &adminFixture{
		users: newUserRepoFake(
			&domain.User{ID: "admin", Email: "admin@x.vn", IsAdmin: true, IsActive: true, CreatedAt: now.AddDate(-1, 0, 0)},
			&domain.User{ID: "u-1", Email: "a@x.vn", IsActive: true, CreatedAt: now.AddDate(0, -2, 0)},
			&domain.User{ID: "u-2", Email: "b@x.vn", IsActive: true, CreatedAt: now},
		),
		sessions:    newSessionRepoFake(),
		assessments: &assessmentRepoFake{},
		contacts:    &contactRepoFake{},
		settings:    &settingsStoreFake{settings: domain.DefaultSettings()},
		pub:         &publisherFake{},
	}
	for i := 0; i < 7; i++ {
		f.assessments.items = append(f.assessments.items, domain.Assessment{
			ID: string(rune('a' + i)), UserID: "u-1", CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	f.contacts.items = []domain.Contact{
		{ID: "c-1", Status: domain.ContactStatusNew, CreatedAt: now},
		{ID: "c-2", Status: domain.ContactStatusRead, CreatedAt: now.Add(-time.Hour)},
	}
	docs := newDocStoreFake()
	f.uc = NewAdminUseCase(f.users, f.sessions, f.assessments, f.contacts, f.settings, NewSyncUseCase(docs), f.pub)
	f.uc.now = func() time.Time { return now }
	return f
}

func TestDashboard(t *testing.T) {
	f := newAdminFixture(time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC))
	d, err := f.uc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.TotalUsers != 3 || d.TotalAssessments != 7 || d.NewContacts != 1 {
		t.Fatalf("unexpected totals %+v", d)
	}
	if len(d.RecentAssessments) != 5 || d.RecentAssessments[0].ID != "a" {
		t.Fatalf("expected five newest assessments, got %d", len(d.RecentAssessments))
	}
	if d.SyncStatistics == nil {
		t.Fatalf("expected sync statistics")
	}
}

func TestToggleUser(t *testing.T) {
	f := newAdminFixture(time.Now().UTC())
	f.sessions.sessions["tok"] = domain.Session{Token: "tok", UserID: "u-1"}

	user, err := f.uc.ToggleUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if user.IsActive || f.users.users["u-1"].IsActive {
		t.Fatalf("expected deactivated user")
	}
	if len(f.sessions.sessions) != 0 {
		t.Fatalf("deactivation must revoke sessions")
	}
	user, err = f.uc.ToggleUser(context.Background(), "u-1")
	if err != nil || !user.IsActive {
		t.Fatalf("expected reactivated user: %v", err)
	}

	_, err = f.uc.ToggleUser(context.Background(), "admin")
	if domain.UserMessage(err) != "Không thể thay đổi trạng thái admin" {
		t.Fatalf("admin toggle must be refused, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	f := newAdminFixture(time.Now().UTC())
	if err := f.uc.DeleteUser(context.Background(), "u-2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := f.users.users["u-2"]; ok {
		t.Fatalf("user must be deleted")
	}
	if got := f.pub.kinds(); len(got) != 1 || got[0] != domain.SyncKindUserDeleted {
		t.Fatalf("expected users.deleted event, got %v", got)
	}
	err := f.uc.DeleteUser(context.Background(), "admin")
	if domain.UserMessage(err) != "Không thể xóa tài khoản admin" {
		t.Fatalf("admin delete must be refused, got %v", err)
	}
	if err := f.uc.DeleteUser(context.Background(), "ghost"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestContactAdministration(t *testing.T) {
	f := newAdminFixture(time.Now().UTC())
	ctx := context.Background()
	if err := f.uc.UpdateContactStatus(ctx, "c-1", domain.ContactStatusReplied); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if f.contacts.items[0].Status != domain.ContactStatusReplied {
		t.Fatalf("status not updated")
	}
	if err := f.uc.UpdateContactStatus(ctx, "c-1", "archived"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if err := f.uc.DeleteContact(ctx, "c-2"); err != nil {
		t.Fatalf("delete contact: %v", err)
	}
	contacts, _ := f.uc.Contacts(ctx)
	if len(contacts) != 1 {
		t.Fatalf("expected one contact left, got %d", len(contacts))
	}
	if err := f.uc.DeleteAssessment(ctx, "a"); err != nil {
		t.Fatalf("delete assessment: %v", err)
	}
	all, _ := f.uc.Assessments(ctx)
	if len(all) != 6 {
		t.Fatalf("expected six assessments, got %d", len(all))
	}
}

func TestReportCoversSixCalendarMonths(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	f := newAdminFixture(now)
	f.assessments.items = append(f.assessments.items, domain.Assessment{ID: "old", CreatedAt: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)})
	f.assessments.items = append(f.assessments.items, domain.Assessment{ID: "older", CreatedAt: time.Date(2025, 9, 30, 23, 0, 0, 0, time.UTC)})

	r, err := f.uc.Report(context.Background())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	want := []string{"10/2025", "11/2025", "12/2025", "01/2026", "02/2026", "03/2026"}
	if len(r.Months) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(r.Months))
	}
	for i, m := range r.Months {
		if m.Month != want[i] {
			t.Fatalf("month %d: expected %s, got %s", i, want[i], m.Month)
		}
	}
	if r.Months[0].Assessments != 1 {
		t.Fatalf("expected one assessment in 10/2025, got %d", r.Months[0].Assessments)
	}
	if r.Months[5].Assessments != 7 || r.Months[5].Users != 1 {
		t.Fatalf("unexpected current month %+v", r.Months[5])
	}
	if r.Months[3].Users != 1 {
		t.Fatalf("expected one user in 01/2026, got %d", r.Months[3].Users)
	}
	if r.TotalContacts != 2 || r.TotalAssessments != 9 {
		t.Fatalf("unexpected totals %+v", r)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	f := newAdminFixture(time.Now().UTC())
	ctx := context.Background()

	s, err := f.uc.UpdateSettings(ctx, domain.Settings{AppName: "HF", LoginAttempts: 0, MaintenanceMode: true})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if s.LoginAttempts != 5 || s.LockoutDurationMinutes != 30 || !s.MaintenanceMode {
		t.Fatalf("expected normalized settings, got %+v", s)
	}
	got, _ := f.uc.Settings(ctx)
	if got.AppName != "HF" || !got.MaintenanceMode {
		t.Fatalf("settings not persisted: %+v", got)
	}

	f.settings.saveErr = errors.New("read-only")
	if _, err := f.uc.UpdateSettings(ctx, got); err == nil {
		t.Fatalf("expected save error")
	}
}
