// Package gcs provides a GCS-backed implementation of the store interfaces.
// It assumes Application Default Credentials are configured
// (gcloud auth application-default login).
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"

	kv "github.com/d4-dhiraj/SpendWise-AI/internal/store"
)

// Store keeps each (namespace, identity) blob as its own object under
// "<prefix>/<identity>/<namespace>.json"; the broadcast slot lives at
// "<prefix>/public/goal.json".
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// New creates a GCS-backed store over the given bucket and object prefix.
func New(ctx context.Context, bucket, prefix string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *Store) objectName(ns kv.Namespace, identity string) string {
	return path.Join(s.prefix, identity, string(ns)+".json")
}

func (s *Store) slotName() string {
	return path.Join(s.prefix, "public", "goal.json")
}

func (s *Store) read(ctx context.Context, object string) ([]byte, error) {
	rc, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}

func (s *Store) write(ctx context.Context, object string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write GCS object: %w", err)
	}

	// Close to finalize the upload
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}
	return nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, ns kv.Namespace, identity string) ([]byte, error) {
	return s.read(ctx, s.objectName(ns, identity))
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, ns kv.Namespace, identity string, data []byte) error {
	return s.write(ctx, s.objectName(ns, identity), data)
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, ns kv.Namespace, identity string) error {
	err := s.client.Bucket(s.bucket).Object(s.objectName(ns, identity)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete GCS object: %w", err)
	}
	return nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.client.Close()
}

// Publish implements store.BroadcastSlot. Last write wins; GCS object
// overwrites need no conflict handling.
func (s *Store) Publish(ctx context.Context, data []byte) error {
	return s.write(ctx, s.slotName(), data)
}

// Fetch implements store.BroadcastSlot.
func (s *Store) Fetch(ctx context.Context) ([]byte, error) {
	return s.read(ctx, s.slotName())
}

// Ensure Store implements both interfaces.
var _ kv.Store = (*Store)(nil)
var _ kv.BroadcastSlot = (*Store)(nil)
