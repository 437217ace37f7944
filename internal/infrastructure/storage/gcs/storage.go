package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/healthfirst/homecare/internal/core/domain"
)

type Options struct {
	Bucket string
	// Prefix is prepended to every key, e.g. "homecare/".
	Prefix          string
	CredentialsFile string
	// Endpoint overrides the API endpoint, e.g. for a local emulator.
	Endpoint string
}

// Storage keeps objects in a Cloud Storage bucket.
type Storage struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

func New(ctx context.Context, opts Options) (*Storage, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "gcs storage", errors.New("bucket is required"))
	}
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &Storage{
		client: client,
		bucket: client.Bucket(opts.Bucket),
		prefix: normalizePrefix(opts.Prefix),
	}, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func (s *Storage) objectName(key string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+key), "/")
	if strings.TrimSpace(key) == "" || clean == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "gcs object name", fmt.Errorf("invalid key %q", key))
	}
	return s.prefix + clean, nil
}

func (s *Storage) Save(ctx context.Context, key string, data io.Reader) error {
	name, err := s.objectName(key)
	if err != nil {
		return err
	}
	w := s.bucket.Object(name).NewWriter(ctx)
	if strings.HasSuffix(name, ".json") {
		w.ContentType = "application/json"
	}
	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return mapError("write object", err)
	}
	if err := w.Close(); err != nil {
		return mapError("close object writer", err)
	}
	return nil
}

func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	name, err := s.objectName(key)
	if err != nil {
		return nil, err
	}
	r, err := s.bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, mapError("open object", err)
	}
	return r, nil
}

// List returns keys under prefix, relative to the configured key prefix.
func (s *Storage) List(ctx context.Context, prefix string) ([]string, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: s.prefix + prefix})
	var keys []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapError("list objects", err)
		}
		keys = append(keys, strings.TrimPrefix(attrs.Name, s.prefix))
	}
	return keys, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	name, err := s.objectName(key)
	if err != nil {
		return err
	}
	if err := s.bucket.Object(name).Delete(ctx); err != nil {
		return mapError("delete object", err)
	}
	return nil
}

func mapError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrObjectNotExist), errors.Is(err, storage.ErrBucketNotExist):
		return domain.WrapError(domain.ErrNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return domain.WrapError(domain.ErrTemporary, op, err)
	}
}
