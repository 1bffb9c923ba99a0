// Package goals owns the zero-or-one active savings goal per identity and
// its contribute/withdraw lifecycle. Contributions and withdrawals are not
// pure goal mutations: each one emits a ledger transaction, because saved
// money leaves (or re-enters) the spendable balance.
package goals

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
	"github.com/d4-dhiraj/SpendWise-AI/internal/ledger"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store"
)

// Tracker is a two-state machine per identity: NoGoal and ActiveGoal.
// Invalid inputs are silent no-ops at this boundary; no mutation ever errors.
type Tracker struct {
	mu       sync.Mutex
	identity string
	kv       store.Store
	slot     store.BroadcastSlot
	ledger   *ledger.Ledger
	log      zerolog.Logger

	goal *domain.SavingsGoal // nil = NoGoal
}

// Open loads the tracker for the given identity. Absent or corrupt data
// yields the NoGoal state.
func Open(ctx context.Context, kv store.Store, slot store.BroadcastSlot, l *ledger.Ledger, identity string, log zerolog.Logger) *Tracker {
	t := &Tracker{
		identity: identity,
		kv:       kv,
		slot:     slot,
		ledger:   l,
		log:      log,
	}

	if data, err := kv.Get(ctx, store.NamespaceGoal, identity); err == nil {
		var g domain.SavingsGoal
		if uerr := json.Unmarshal(data, &g); uerr != nil {
			log.Error().Err(uerr).Str("identity", identity).Msg("Corrupt goal, starting without one")
		} else {
			t.goal = &g
		}
	} else if err != store.ErrNotFound {
		log.Error().Err(err).Str("identity", identity).Msg("Failed to load goal")
	}

	return t
}

// Goal returns the active goal, if any.
func (t *Tracker) Goal() (domain.SavingsGoal, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.goal == nil {
		return domain.SavingsGoal{}, false
	}
	return *t.goal, true
}

// Create transitions NoGoal to ActiveGoal. No-op when a goal already exists,
// when the title is empty, or when the target is not a positive number.
func (t *Tracker) Create(ctx context.Context, title string, target float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.goal != nil || title == "" || !(target > 0) {
		return
	}
	t.goal = &domain.SavingsGoal{
		ID:           domain.NewGoalID(),
		Title:        title,
		TargetAmount: target,
		CurrentSaved: 0,
	}
	t.persist(ctx)
}

// Contribute moves amount into the goal, clamped at the target, and emits a
// debit transaction of exactly amount. No-op without an active goal or with
// a non-positive amount.
func (t *Tracker) Contribute(ctx context.Context, amount float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.goal == nil || !(amount > 0) {
		return
	}
	t.goal.CurrentSaved += amount
	if t.goal.CurrentSaved > t.goal.TargetAmount {
		t.goal.CurrentSaved = t.goal.TargetAmount
	}
	t.persist(ctx)

	t.ledger.Append(ctx, domain.Transaction{
		ID:       domain.NewTransactionID(),
		Amount:   amount,
		Merchant: "Savings: " + t.goal.Title,
		Category: domain.CategoryOther,
		Type:     domain.Debit,
		Date:     time.Now(),
		Origin:   "Manual savings contribution",
	})
}

// Withdraw moves amount back out of the goal, clamped at zero, and emits a
// credit transaction of exactly amount.
func (t *Tracker) Withdraw(ctx context.Context, amount float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.goal == nil || !(amount > 0) {
		return
	}
	t.goal.CurrentSaved -= amount
	if t.goal.CurrentSaved < 0 {
		t.goal.CurrentSaved = 0
	}
	t.persist(ctx)

	t.ledger.Append(ctx, domain.Transaction{
		ID:       domain.NewTransactionID(),
		Amount:   amount,
		Merchant: "Withdraw: " + t.goal.Title,
		Category: domain.CategoryOther,
		Type:     domain.Credit,
		Date:     time.Now(),
		Origin:   "Manual savings withdraw",
	})
}

// Delete transitions ActiveGoal to NoGoal. Transactions already recorded by
// prior contributions and withdrawals stay in the ledger untouched.
func (t *Tracker) Delete(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.goal == nil {
		return
	}
	t.goal = nil
	if err := t.kv.Delete(ctx, store.NamespaceGoal, t.identity); err != nil {
		t.log.Error().Err(err).Str("identity", t.identity).Msg("Failed to delete persisted goal")
	}
}

// Publish copies the active goal into the global broadcast slot.
// Last writer wins; there is no conflict detection.
func (t *Tracker) Publish(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.goal == nil {
		return
	}
	data, err := json.Marshal(t.goal)
	if err != nil {
		t.log.Error().Err(err).Msg("Failed to encode goal for publishing")
		return
	}
	if err := t.slot.Publish(ctx, data); err != nil {
		t.log.Error().Err(err).Str("identity", t.identity).Msg("Failed to publish goal")
	}
}

// Import adopts the published goal as a fresh one. Only offered in the
// NoGoal state; the imported goal gets a new id but copies every other field
// verbatim, including the saved amount.
func (t *Tracker) Import(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.goal != nil {
		return false
	}
	data, err := t.slot.Fetch(ctx)
	if err != nil {
		if err != store.ErrNotFound {
			t.log.Error().Err(err).Msg("Failed to fetch published goal")
		}
		return false
	}
	var g domain.SavingsGoal
	if err := json.Unmarshal(data, &g); err != nil {
		t.log.Error().Err(err).Msg("Corrupt published goal, ignoring")
		return false
	}
	g.ID = domain.NewGoalID()
	t.goal = &g
	t.persist(ctx)
	return true
}

// persist writes the goal namespace, best-effort. Caller holds the lock.
func (t *Tracker) persist(ctx context.Context) {
	data, err := json.Marshal(t.goal)
	if err != nil {
		t.log.Error().Err(err).Str("identity", t.identity).Msg("Failed to encode goal")
		return
	}
	if err := t.kv.Put(ctx, store.NamespaceGoal, t.identity, data); err != nil {
		t.log.Error().Err(err).Str("identity", t.identity).Msg("Failed to persist goal")
	}
}
