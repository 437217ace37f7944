package settingsstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
)

const DefaultKey = "settings/admin_settings.json"

// Store keeps admin settings as one JSON object. Fields missing from the
// stored object take their default values.
type Store struct {
	objects ports.ObjectStorage
	key     string

	mu sync.Mutex
}

func New(objects ports.ObjectStorage, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{objects: objects, key: key}
}

func (s *Store) Load(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rc, err := s.objects.Open(ctx, s.key)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("open settings: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	settings := domain.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, domain.WrapError(domain.ErrInvalidInput, "decode settings", err)
	}
	return settings.Normalize(), nil
}

func (s *Store) Save(ctx context.Context, settings domain.Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.objects.Save(ctx, s.key, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
