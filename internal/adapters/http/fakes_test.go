package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/domain"
)

type authFake struct {
	tokens    map[string]*domain.User
	loginErr  error
	loggedOut []string
}

func newAuthFake() *authFake {
	return &authFake{tokens: map[string]*domain.User{
		"tok-user":  {ID: "u-1", Email: "lan@example.com", IsActive: true},
		"tok-admin": {ID: "u-admin", Email: "admin@healthfirst.com", IsActive: true, IsAdmin: true},
	}}
}

func (f *authFake) Register(_ context.Context, in domain.RegisterInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &domain.User{ID: "u-new", Email: in.Email, IsActive: true}, nil
}

func (f *authFake) Login(_ context.Context, in domain.LoginInput) (*domain.Session, *domain.User, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	if in.Password != "secret1" {
		return nil, nil, domain.NewUserError(domain.ErrUnauthorized, "Mật khẩu không đúng. Còn 4 lần thử.")
	}
	session := &domain.Session{Token: "tok-user", UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour)}
	return session, f.tokens["tok-user"], nil
}

func (f *authFake) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *authFake) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.NewUserError(domain.ErrUnauthorized, "Vui lòng đăng nhập")
	}
	user, ok := f.tokens[token]
	if !ok {
		return nil, domain.NewUserError(domain.ErrUnauthorized, "Phiên đăng nhập không hợp lệ")
	}
	return user, nil
}

type assessFake struct {
	lastUser  *domain.User
	lastReq   domain.AssessmentRequest
	lastQuick domain.QuickDiagnosisRequest
	quickErr  error
}

func (f *assessFake) Assess(_ context.Context, user *domain.User, req domain.AssessmentRequest) (domain.AssessmentResult, error) {
	f.lastUser = user
	f.lastReq = req
	return domain.AssessmentResult{
		Priority:        domain.PriorityHomeCare,
		Message:         "Có thể chăm sóc tại nhà",
		Recommendations: []string{"Nghỉ ngơi"},
	}, nil
}

func (f *assessFake) QuickDiagnosis(_ context.Context, req domain.QuickDiagnosisRequest) (domain.Diagnosis, error) {
	f.lastQuick = req
	if f.quickErr != nil {
		return domain.Diagnosis{}, f.quickErr
	}
	return domain.Diagnosis{Disease: "Cảm lạnh thông thường", Confidence: 60, Source: domain.DiagnosisSourceFallback}, nil
}

type catalogFake struct{}

func (catalogFake) Topics(context.Context) []domain.Topic {
	return []domain.Topic{{ID: "cold", Title: "Cảm lạnh", Keywords: []string{"ho"}}}
}

func (catalogFake) Symptoms(context.Context) ([]diagnosis.SymptomName, error) {
	return []diagnosis.SymptomName{{EN: "fever", VN: "Sốt"}}, nil
}

func (catalogFake) Diseases(context.Context) ([]diagnosis.DiseaseInfo, error) {
	return nil, domain.NewUserError(domain.ErrUnavailable, "Hệ thống AI chưa sẵn sàng")
}

func (catalogFake) SymptomInfo(_ context.Context, name string) (diagnosis.SymptomInfo, error) {
	return diagnosis.SymptomInfo{Name: name, NameVN: "Sốt", Severity: 5}, nil
}

type profileFake struct {
	lastUpdate domain.ProfileUpdate
}

func (f *profileFake) Profile(_ context.Context, userID string) (*domain.ProfileView, error) {
	return &domain.ProfileView{User: domain.NewUserView(&domain.User{ID: userID})}, nil
}

func (f *profileFake) UpdateProfile(_ context.Context, userID string, update domain.ProfileUpdate) (*domain.ProfileView, error) {
	f.lastUpdate = update
	return &domain.ProfileView{User: domain.NewUserView(&domain.User{ID: userID, WeightKG: update.WeightKG})}, nil
}

type contactFake struct{}

func (contactFake) SubmitContact(_ context.Context, in domain.ContactInput) (*domain.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &domain.Contact{ID: "c-1", Status: domain.ContactStatusNew}, nil
}

type adminFake struct {
	settings     domain.Settings
	statusCalls  []string
	dashboardErr error
}

func (f *adminFake) Dashboard(context.Context) (*domain.Dashboard, error) {
	if f.dashboardErr != nil {
		return nil, f.dashboardErr
	}
	return &domain.Dashboard{TotalUsers: 2}, nil
}

func (f *adminFake) Users(context.Context) ([]domain.UserView, error) {
	return []domain.UserView{domain.NewUserView(&domain.User{ID: "u-1"})}, nil
}

func (f *adminFake) ToggleUser(_ context.Context, id string) (*domain.User, error) {
	if id == "u-admin" {
		return nil, domain.NewUserError(domain.ErrInvalidInput, "Không thể thay đổi trạng thái admin")
	}
	return &domain.User{ID: id, IsActive: false}, nil
}

func (f *adminFake) DeleteUser(_ context.Context, id string) error {
	if id == "missing" {
		return domain.WrapError(domain.ErrNotFound, "delete user", errors.New(id))
	}
	return nil
}

func (f *adminFake) Assessments(context.Context) ([]domain.Assessment, error) {
	return []domain.Assessment{}, nil
}

func (f *adminFake) DeleteAssessment(context.Context, string) error { return nil }

func (f *adminFake) Contacts(context.Context) ([]domain.Contact, error) {
	return []domain.Contact{}, nil
}

func (f *adminFake) UpdateContactStatus(_ context.Context, id string, status domain.ContactStatus) error {
	if !status.Valid() {
		return domain.NewUserError(domain.ErrInvalidInput, "Trạng thái không hợp lệ")
	}
	f.statusCalls = append(f.statusCalls, id+":"+string(status))
	return nil
}

func (f *adminFake) DeleteContact(context.Context, string) error { return nil }

func (f *adminFake) Report(context.Context) (*domain.Report, error) {
	return &domain.Report{
		TotalUsers:  3,
		Months:      []domain.MonthlyStat{{Month: "03/2026", Users: 1, Assessments: 2}},
		GeneratedAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f *adminFake) Settings(context.Context) (domain.Settings, error) {
	return f.settings, nil
}

func (f *adminFake) UpdateSettings(_ context.Context, s domain.Settings) (domain.Settings, error) {
	f.settings = s.Normalize()
	return f.settings, nil
}

type syncFake struct {
	saved []domain.SaveDiagnosisInput
}

func (f *syncFake) Collection(_ context.Context, kind domain.SyncKind) ([]json.RawMessage, error) {
	return []json.RawMessage{json.RawMessage(`{"id":"1","kind":"` + string(kind) + `"}`)}, nil
}

func (f *syncFake) UserHistory(_ context.Context, userID string) ([]json.RawMessage, error) {
	return []json.RawMessage{json.RawMessage(`{"user_id":"` + userID + `"}`)}, nil
}

func (f *syncFake) DiagnosisHistory(context.Context, string) ([]json.RawMessage, error) {
	return []json.RawMessage{}, nil
}

func (f *syncFake) Statistics(context.Context) (*domain.SyncStatistics, error) {
	return &domain.SyncStatistics{TotalUsers: 1, AssessmentsByPriority: map[string]int{"emergency": 1}}, nil
}

func (f *syncFake) SaveDiagnosis(_ context.Context, callerID string, in domain.SaveDiagnosisInput) (*domain.SavedDiagnosis, error) {
	if in.UserID != callerID {
		return nil, domain.NewUserError(domain.ErrForbidden, "Unauthorized")
	}
	f.saved = append(f.saved, in)
	return &domain.SavedDiagnosis{ID: "d-1", UserID: in.UserID}, nil
}

type exporterFake struct{}

func (exporterFake) ContentType() string   { return "application/test-sheet" }
func (exporterFake) FileExtension() string { return "xlsx" }

func (exporterFake) Export(w io.Writer, report domain.Report) error {
	_, err := io.WriteString(w, report.Months[0].Month)
	return err
}
