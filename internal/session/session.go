// Package session maps authenticated identities to their loaded ledger and
// goal tracker. State is opened lazily per identity and evicted on sign-out;
// because every piece of state is keyed by identity all the way down to the
// store, nothing can leak from one user into another.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/auth"
	"github.com/d4-dhiraj/SpendWise-AI/internal/goals"
	"github.com/d4-dhiraj/SpendWise-AI/internal/ledger"
	"github.com/d4-dhiraj/SpendWise-AI/internal/logger"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store"
)

// Session bundles one identity's live state.
type Session struct {
	Ledger *ledger.Ledger
	Goals  *goals.Tracker
}

// Manager hands out sessions keyed by identity.
type Manager struct {
	mu       sync.Mutex
	kv       store.Store
	slot     store.BroadcastSlot
	log      zerolog.Logger
	sessions map[string]*Session
}

// NewManager creates a session manager over the given store and slot.
func NewManager(kv store.Store, slot store.BroadcastSlot, log zerolog.Logger) *Manager {
	return &Manager{
		kv:       kv,
		slot:     slot,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for the identity, loading it on first use.
func (m *Manager) Get(ctx context.Context, identity string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[identity]; ok {
		return s
	}

	log := logger.WithIdentity(m.log, identity)
	l := ledger.Open(ctx, m.kv, identity, log)
	s := &Session{
		Ledger: l,
		Goals:  goals.Open(ctx, m.kv, m.slot, l, identity, log),
	}
	m.sessions[identity] = s
	return s
}

// Evict drops the in-memory session for an identity. Persisted state is
// untouched; the next Get reloads it.
func (m *Manager) Evict(identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, identity)
}

// HandleAuthEvent wires the manager to the auth provider's identity-change
// subscription. Sign-out evicts; sign-in stays lazy.
func (m *Manager) HandleAuthEvent(ev auth.Event) {
	if !ev.SignedIn {
		m.Evict(ev.Identity.ID)
	}
}
