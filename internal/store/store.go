// Package store defines the identity-scoped persistence contract used by the
// ledger and the goal tracker. A Store maps (namespace, identity) to an
// opaque serialized blob; callers own the encoding.
package store

import (
	"context"
	"errors"
)

// Namespace enumerates the per-identity data kinds. Each kind lives under its
// own key so a ledger write never clobbers a balance or goal write.
type Namespace string

const (
	NamespaceLedger  Namespace = "ledger"
	NamespaceBalance Namespace = "balance"
	NamespaceGoal    Namespace = "goal"
)

// ErrNotFound is returned when no blob exists for a (namespace, identity)
// pair. Callers treat it as "empty/default state", not as a failure.
var ErrNotFound = errors.New("store: not found")

// Store is the durable key-value abstraction behind all per-identity state.
// Implementations must keep identities fully isolated from each other.
type Store interface {
	// Get returns the blob stored for the given namespace and identity,
	// or ErrNotFound when nothing has been written yet.
	Get(ctx context.Context, ns Namespace, identity string) ([]byte, error)

	// Put overwrites the blob for the given namespace and identity.
	Put(ctx context.Context, ns Namespace, identity string, data []byte) error

	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(ctx context.Context, ns Namespace, identity string) error

	// Close releases any underlying resources.
	Close() error
}

// BroadcastSlot is the single global published-goal slot. It is unscoped and
// shared by all identities; concurrent publishers race last-write-wins with
// no conflict detection.
type BroadcastSlot interface {
	// Publish replaces the slot contents.
	Publish(ctx context.Context, data []byte) error

	// Fetch returns the current slot contents, or ErrNotFound when nothing
	// has ever been published.
	Fetch(ctx context.Context) ([]byte, error)
}
