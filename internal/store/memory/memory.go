// Package memory provides an in-memory implementation of the store
// interfaces. Data is lost on restart - for persistence, use the sqlite or
// gcs store.
package memory

import (
	"context"
	"sync"

	"github.com/d4-dhiraj/SpendWise-AI/internal/store"
)

// Store is an in-memory implementation of store.Store.
// It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	slot  []byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		blobs: make(map[string][]byte),
	}
}

func key(ns store.Namespace, identity string) string {
	return string(ns) + "\x00" + identity
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, ns store.Namespace, identity string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key(ns, identity)]
	if !ok {
		return nil, store.ErrNotFound
	}

	// Return a copy to avoid external modifications
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, ns store.Namespace, identity string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := make([]byte, len(data))
	copy(in, data)
	s.blobs[key(ns, identity)] = in
	return nil
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, ns store.Namespace, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key(ns, identity))
	return nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return nil
}

// Publish implements store.BroadcastSlot. Last write wins.
func (s *Store) Publish(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := make([]byte, len(data))
	copy(in, data)
	s.slot = in
	return nil
}

// Fetch implements store.BroadcastSlot.
func (s *Store) Fetch(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.slot == nil {
		return nil, store.ErrNotFound
	}
	out := make([]byte, len(s.slot))
	copy(out, s.slot)
	return out, nil
}

// Ensure Store implements both interfaces.
var _ store.Store = (*Store)(nil)
var _ store.BroadcastSlot = (*Store)(nil)
