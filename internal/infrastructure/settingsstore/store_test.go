package settingsstore

import (
	"context"
	"strings"
	"testing"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/infrastructure/storage/localfs"
)

func newStore(t *testing.T) (*Store, *localfs.Storage) {
	t.Helper()
	objects, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New() error = %v", err)
	}
	return New(objects, ""), objects
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	s, _ := newStore(t)
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != domain.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestSaveThenLoad(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	want := domain.DefaultSettings()
	want.AppName = "HealthFirst Huế"
	want.LoginAttempts = 3
	want.MaintenanceMode = true
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	s, objects := newStore(t)
	ctx := context.Background()
	if err := objects.Save(ctx, DefaultKey, strings.NewReader(`{"maintenance_mode": true, "login_attempts": 0}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.MaintenanceMode || got.LoginAttempts != 5 || got.SessionTimeoutMinutes != 30 {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	s, objects := newStore(t)
	ctx := context.Background()
	if err := objects.Save(ctx, DefaultKey, strings.NewReader(`{broken`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := s.Load(ctx); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
