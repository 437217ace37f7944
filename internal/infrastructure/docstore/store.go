package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/core/ports"
	"github.com/healthfirst/homecare/internal/infrastructure/resilience"
)

const docExt = ".json"

// Store keeps each document as <collection>/<id>.json in object storage.
// Writes go through the executor when one is configured.
type Store struct {
	objects  ports.ObjectStorage
	executor *resilience.Executor
}

func New(objects ports.ObjectStorage, executor *resilience.Executor) *Store {
	return &Store{objects: objects, executor: executor}
}

func docKey(collection, id string) (string, error) {
	if err := checkName("collection", collection); err != nil {
		return "", err
	}
	if err := checkName("document id", id); err != nil {
		return "", err
	}
	return collection + "/" + id + docExt, nil
}

func checkName(what, name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return domain.WrapError(domain.ErrInvalidInput, "document key", fmt.Errorf("invalid %s %q", what, name))
	}
	return nil
}

func (s *Store) Put(ctx context.Context, collection, id string, doc json.RawMessage) error {
	key, err := docKey(collection, id)
	if err != nil {
		return err
	}
	if !json.Valid(doc) {
		return domain.WrapError(domain.ErrInvalidInput, "put document", errors.New("document is not valid JSON"))
	}
	return s.run(ctx, resilience.OpDocumentPut, func(ctx context.Context) error {
		return s.objects.Save(ctx, key, bytes.NewReader(doc))
	})
}

func (s *Store) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	key, err := docKey(collection, id)
	if err != nil {
		return nil, err
	}
	return s.read(ctx, key)
}

func (s *Store) read(ctx context.Context, key string) (json.RawMessage, error) {
	rc, err := s.objects.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", key, err)
	}
	return json.RawMessage(data), nil
}

// List returns every document in the collection in key order. Documents
// that disappear or fail to parse between listing and reading are skipped.
func (s *Store) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := checkName("collection", collection); err != nil {
		return nil, err
	}
	keys, err := s.objects.List(ctx, collection+"/")
	if err != nil {
		return nil, fmt.Errorf("list collection %s: %w", collection, err)
	}
	out := make([]json.RawMessage, 0, len(keys))
	for _, key := range keys {
		if !strings.HasSuffix(key, docExt) || strings.Contains(strings.TrimPrefix(key, collection+"/"), "/") {
			continue
		}
		doc, err := s.read(ctx, key)
		if err != nil {
			if domain.IsKind(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !json.Valid(doc) {
			slog.Warn("document_skipped", "key", key, "reason", "invalid json")
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	key, err := docKey(collection, id)
	if err != nil {
		return err
	}
	return s.run(ctx, resilience.OpDocumentDelete, func(ctx context.Context) error {
		return s.objects.Delete(ctx, key)
	})
}

func (s *Store) run(ctx context.Context, op string, fn func(context.Context) error) error {
	if s.executor == nil {
		return fn(ctx)
	}
	return s.executor.Execute(ctx, op, fn, resilience.DomainClassifier)
}
