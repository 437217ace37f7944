package ports

import (
	"context"
	"encoding/json"

	"github.com/healthfirst/homecare/internal/core/diagnosis"
	"github.com/healthfirst/homecare/internal/core/domain"
)

// AuthService is the inbound contract for registration and sessions.
type AuthService interface {
	Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in domain.LoginInput) (*domain.Session, *domain.User, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AssessmentService is the inbound triage contract.
type AssessmentService interface {
	Assess(ctx context.Context, user *domain.User, req domain.AssessmentRequest) (domain.AssessmentResult, error)
	QuickDiagnosis(ctx context.Context, req domain.QuickDiagnosisRequest) (domain.Diagnosis, error)
}

// CatalogService serves the reference data behind the triage components.
type CatalogService interface {
	Topics(ctx context.Context) []domain.Topic
	Symptoms(ctx context.Context) ([]diagnosis.SymptomName, error)
	Diseases(ctx context.Context) ([]diagnosis.DiseaseInfo, error)
	SymptomInfo(ctx context.Context, name string) (diagnosis.SymptomInfo, error)
}

// ProfileService reads and updates a user's health profile.
type ProfileService interface {
	Profile(ctx context.Context, userID string) (*domain.ProfileView, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.ProfileView, error)
}

// ContactService accepts public contact messages.
type ContactService interface {
	SubmitContact(ctx context.Context, in domain.ContactInput) (*domain.Contact, error)
}

// AdminService is the inbound contract for the admin console.
type AdminService interface {
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	Users(ctx context.Context) ([]domain.UserView, error)
	ToggleUser(ctx context.Context, id string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	Assessments(ctx context.Context) ([]domain.Assessment, error)
	DeleteAssessment(ctx context.Context, id string) error
	Contacts(ctx context.Context) ([]domain.Contact, error)
	UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) error
	DeleteContact(ctx context.Context, id string) error
	Report(ctx context.Context) (*domain.Report, error)
	Settings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error)
}

// SyncReader exposes the document-store mirror.
type SyncReader interface {
	Collection(ctx context.Context, kind domain.SyncKind) ([]json.RawMessage, error)
	UserHistory(ctx context.Context, userID string) ([]json.RawMessage, error)
	DiagnosisHistory(ctx context.Context, userID string) ([]json.RawMessage, error)
	Statistics(ctx context.Context) (*domain.SyncStatistics, error)
	SaveDiagnosis(ctx context.Context, callerID string, in domain.SaveDiagnosisInput) (*domain.SavedDiagnosis, error)
}

// SyncApplier writes one sync event into the document store.
type SyncApplier interface {
	Apply(ctx context.Context, event domain.SyncEvent) error
}
