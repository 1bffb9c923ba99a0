// Package sqlite provides a sqlite-backed implementation of the store
// interfaces, suitable for single-machine deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/d4-dhiraj/SpendWise-AI/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS blobs (
	namespace  TEXT NOT NULL,
	identity   TEXT NOT NULL,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (namespace, identity)
);
`

// The broadcast slot lives in the same table under a reserved namespace and
// an empty identity, so a single-file database holds everything.
const slotNamespace = "public_goal"

// Store is a sqlite-backed implementation of store.Store and
// store.BroadcastSlot.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at dbPath.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, ns store.Namespace, identity string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM blobs WHERE namespace = ? AND identity = ?`,
		string(ns), identity,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select blob: %w", err)
	}
	return data, nil
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, ns store.Namespace, identity string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (namespace, identity, data, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (namespace, identity)
		 DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		string(ns), identity, data,
	)
	if err != nil {
		return fmt.Errorf("upsert blob: %w", err)
	}
	return nil
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, ns store.Namespace, identity string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM blobs WHERE namespace = ? AND identity = ?`,
		string(ns), identity,
	)
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Publish implements store.BroadcastSlot. Last write wins.
func (s *Store) Publish(ctx context.Context, data []byte) error {
	return s.Put(ctx, store.Namespace(slotNamespace), "", data)
}

// Fetch implements store.BroadcastSlot.
func (s *Store) Fetch(ctx context.Context) ([]byte, error) {
	return s.Get(ctx, store.Namespace(slotNamespace), "")
}

// Ensure Store implements both interfaces.
var _ store.Store = (*Store)(nil)
var _ store.BroadcastSlot = (*Store)(nil)
