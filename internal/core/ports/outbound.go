package ports

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/healthfirst/homecare/internal/core/domain"
)

// UserRepository persists accounts. Count ranges are [from, to); a zero bound
// is open.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	CountUsers(ctx context.Context, from, to time.Time) (int, error)
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// AssessmentRepository persists triage records, newest first. A non-positive
// limit lists all.
type AssessmentRepository interface {
	CreateAssessment(ctx context.Context, a *domain.Assessment) error
	ListAssessments(ctx context.Context, limit int) ([]domain.Assessment, error)
	ListUserAssessments(ctx context.Context, userID string, limit int) ([]domain.Assessment, error)
	DeleteAssessment(ctx context.Context, id string) error
	CountAssessments(ctx context.Context, from, to time.Time) (int, error)
}

// ContactRepository persists contact messages. CountContactsByStatus with an
// empty status counts every contact.
type ContactRepository interface {
	CreateContact(ctx context.Context, c *domain.Contact) error
	ListContacts(ctx context.Context, limit int) ([]domain.Contact, error)
	UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) error
	DeleteContact(ctx context.Context, id string) error
	CountContactsByStatus(ctx context.Context, status domain.ContactStatus) (int, error)
}

// ObjectStorage stores opaque blobs under slash-separated keys.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// DocumentStore keeps JSON documents grouped in collections.
type DocumentStore interface {
	Put(ctx context.Context, collection, id string, doc json.RawMessage) error
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)
	List(ctx context.Context, collection string) ([]json.RawMessage, error)
	Delete(ctx context.Context, collection, id string) error
}

// SyncPublisher hands document-store sync events to the worker.
type SyncPublisher interface {
	PublishSync(ctx context.Context, event domain.SyncEvent) error
}

// SyncQueue publishes and consumes sync events.
type SyncQueue interface {
	SyncPublisher
	SubscribeSync(ctx context.Context, handler func(context.Context, domain.SyncEvent) error) error
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// SettingsStore persists admin settings.
type SettingsStore interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}

// ReportExporter renders an admin report into a downloadable document.
type ReportExporter interface {
	ContentType() string
	FileExtension() string
	Export(w io.Writer, report domain.Report) error
}

// TriageObserver records triage outcomes for telemetry.
type TriageObserver interface {
	ObserveTriage(path string, priority domain.Priority, severity int)
}
