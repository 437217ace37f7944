package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/healthfirst/homecare/internal/core/domain"
)

type userRepoFake struct {
	users     map[string]*domain.User
	createErr error
	updateErr error
	updates   int
}

func newUserRepoFake(users ...*domain.User) *userRepoFake {
	f := &userRepoFake{users: map[string]*domain.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *userRepoFake) CreateUser(_ context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyUser := *u
	f.users[u.ID] = &copyUser
	return nil
}

func (f *userRepoFake) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get user", errors.New(id))
	}
	copyUser := *u
	return &copyUser, nil
}

func (f *userRepoFake) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copyUser := *u
			return &copyUser, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get user by email", errors.New(email))
}

func (f *userRepoFake) UpdateUser(_ context.Context, u *domain.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	copyUser := *u
	f.users[u.ID] = &copyUser
	return nil
}

func (f *userRepoFake) DeleteUser(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return domain.WrapError(domain.ErrNotFound, "delete user", errors.New(id))
	}
	delete(f.users, id)
	return nil
}

func (f *userRepoFake) ListUsers(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *userRepoFake) CountUsers(_ context.Context, from, to time.Time) (int, error) {
	n := 0
	for _, u := range f.users {
		if inRange(u.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

type sessionRepoFake struct {
	sessions  map[string]domain.Session
	createErr error
	purged    []string
}

func newSessionRepoFake() *sessionRepoFake {
	return &sessionRepoFake{sessions: map[string]domain.Session{}}
}

func (f *sessionRepoFake) CreateSession(_ context.Context, s domain.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[s.Token] = s
	return nil
}

func (f *sessionRepoFake) GetSession(_ context.Context, token string) (*domain.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get session", errors.New("missing"))
	}
	return &s, nil
}

func (f *sessionRepoFake) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *sessionRepoFake) DeleteUserSessions(_ context.Context, userID string) error {
	for token, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, token)
		}
	}
	f.purged = append(f.purged, userID)
	return nil
}

func (f *sessionRepoFake) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for token, s := range f.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(f.sessions, token)
			n++
		}
	}
	return n, nil
}

type assessmentRepoFake struct {
	items     []domain.Assessment
	createErr error
}

func (f *assessmentRepoFake) CreateAssessment(_ context.Context, a *domain.Assessment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items = append(f.items, *a)
	return nil
}

func (f *assessmentRepoFake) sorted() []domain.Assessment {
	out := append([]domain.Assessment(nil), f.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *assessmentRepoFake) ListAssessments(_ context.Context, limit int) ([]domain.Assessment, error) {
	out := f.sorted()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *assessmentRepoFake) ListUserAssessments(_ context.Context, userID string, limit int) ([]domain.Assessment, error) {
	var out []domain.Assessment
	for _, a := range f.sorted() {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *assessmentRepoFake) DeleteAssessment(_ context.Context, id string) error {
	for i, a := range f.items {
		if a.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.WrapError(domain.ErrNotFound, "delete assessment", errors.New(id))
}

func (f *assessmentRepoFake) CountAssessments(_ context.Context, from, to time.Time) (int, error) {
	n := 0
	for _, a := range f.items {
		if inRange(a.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

type contactRepoFake struct {
	items []domain.Contact
}

func (f *contactRepoFake) CreateContact(_ context.Context, c *domain.Contact) error {
	f.items = append(f.items, *c)
	return nil
}

func (f *contactRepoFake) ListContacts(_ context.Context, limit int) ([]domain.Contact, error) {
	out := append([]domain.Contact(nil), f.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *contactRepoFake) UpdateContactStatus(_ context.Context, id string, status domain.ContactStatus) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = status
			return nil
		}
	}
	return domain.WrapError(domain.ErrNotFound, "update contact", errors.New(id))
}

func (f *contactRepoFake) DeleteContact(_ context.Context, id string) error {
	for i, c := range f.items {
		if c.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.WrapError(domain.ErrNotFound, "delete contact", errors.New(id))
}

func (f *contactRepoFake) CountContactsByStatus(_ context.Context, status domain.ContactStatus) (int, error) {
	n := 0
	for _, c := range f.items {
		if status == "" || c.Status == status {
			n++
		}
	}
	return n, nil
}

// hasherFake stores passwords reversibly so tests can reason about them.
type hasherFake struct{}

func (hasherFake) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (hasherFake) Verify(password, encoded string) (bool, error) {
	return encoded == "hashed:"+password, nil
}

type settingsStoreFake struct {
	settings domain.Settings
	loadErr  error
	saveErr  error
	saved    int
}

func (f *settingsStoreFake) Load(context.Context) (domain.Settings, error) {
	if f.loadErr != nil {
		return domain.Settings{}, f.loadErr
	}
	return f.settings, nil
}

func (f *settingsStoreFake) Save(_ context.Context, s domain.Settings) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved++
	f.settings = s
	return nil
}

type publisherFake struct {
	mu     sync.Mutex
	events []domain.SyncEvent
	err    error
}

func (f *publisherFake) PublishSync(_ context.Context, e domain.SyncEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func (f *publisherFake) kinds() []domain.SyncKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.SyncKind, len(f.events))
	for i, e := range f.events {
		out[i] = e.Kind
	}
	return out
}

type docStoreFake struct {
	docs   map[string]map[string]json.RawMessage
	putErr error
}

func newDocStoreFake() *docStoreFake {
	return &docStoreFake{docs: map[string]map[string]json.RawMessage{}}
}

func (f *docStoreFake) Put(_ context.Context, collection, id string, doc json.RawMessage) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.docs[collection] == nil {
		f.docs[collection] = map[string]json.RawMessage{}
	}
	f.docs[collection][id] = doc
	return nil
}

func (f *docStoreFake) Get(_ context.Context, collection, id string) (json.RawMessage, error) {
	doc, ok := f.docs[collection][id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get document", errors.New(collection+"/"+id))
	}
	return doc, nil
}

func (f *docStoreFake) List(_ context.Context, collection string) ([]json.RawMessage, error) {
	ids := make([]string, 0, len(f.docs[collection]))
	for id := range f.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]json.RawMessage, len(ids))
	for i, id := range ids {
		out[i] = f.docs[collection][id]
	}
	return out, nil
}

func (f *docStoreFake) Delete(_ context.Context, collection, id string) error {
	if _, ok := f.docs[collection][id]; !ok {
		return domain.WrapError(domain.ErrNotFound, "delete document", errors.New(collection+"/"+id))
	}
	delete(f.docs[collection], id)
	return nil
}

type observerFake struct {
	paths      []string
	priorities []domain.Priority
}

func (f *observerFake) ObserveTriage(path string, p domain.Priority, _ int) {
	f.paths = append(f.paths, path)
	f.priorities = append(f.priorities, p)
}

func userMessageContains(err error, part string) bool {
	return err != nil && strings.Contains(domain.UserMessage(err), part)
}

func ptrInt(v int) *int { return &v }

func ptrFloat(v float64) *float64 { return &v }

func ptrString(v string) *string { return &v }
