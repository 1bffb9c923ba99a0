// Package ledger owns the canonical transaction list and running balance for
// one identity. All mutations are total functions: any well-formed
// transaction is accepted, and persistence failures are logged rather than
// surfaced, so the in-memory state is always consistent.
package ledger

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store"
)

// DefaultBalance is the starting balance for an identity with no prior data.
const DefaultBalance = 1000

// Ledger is the per-identity transaction list plus the separately persisted
// running balance. The balance is NOT derived from the list: contributions,
// withdrawals and classified entries adjust it incrementally, and SetBalance
// can override it outright.
type Ledger struct {
	mu       sync.Mutex
	identity string
	kv       store.Store
	log      zerolog.Logger

	balance      float64
	transactions []domain.Transaction // newest first by insertion
}

// Open loads the ledger for the given identity. Absent data yields an empty
// collection and the default balance; corrupt data is logged and treated the
// same way, never propagated.
func Open(ctx context.Context, kv store.Store, identity string, log zerolog.Logger) *Ledger {
	l := &Ledger{
		identity: identity,
		kv:       kv,
		log:      log,
		balance:  DefaultBalance,
	}

	if data, err := kv.Get(ctx, store.NamespaceLedger, identity); err == nil {
		var txs []domain.Transaction
		if uerr := json.Unmarshal(data, &txs); uerr != nil {
			log.Error().Err(uerr).Str("identity", identity).Msg("Corrupt ledger snapshot, starting empty")
		} else {
			l.transactions = txs
		}
	} else if err != store.ErrNotFound {
		log.Error().Err(err).Str("identity", identity).Msg("Failed to load ledger snapshot")
	}

	if data, err := kv.Get(ctx, store.NamespaceBalance, identity); err == nil {
		if bal, perr := strconv.ParseFloat(string(data), 64); perr != nil {
			log.Error().Err(perr).Str("identity", identity).Msg("Corrupt balance, using default")
		} else {
			l.balance = bal
		}
	} else if err != store.ErrNotFound {
		log.Error().Err(err).Str("identity", identity).Msg("Failed to load balance")
	}

	return l
}

// Append inserts the transaction at the front of the collection and adjusts
// the balance by +amount for credits, -amount for debits. No validation:
// zero amounts and duplicate ids are the caller's problem.
func (l *Ledger) Append(ctx context.Context, tx domain.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.transactions = append([]domain.Transaction{tx}, l.transactions...)
	if tx.Type == domain.Credit {
		l.balance += tx.Amount
	} else {
		l.balance -= tx.Amount
	}
	l.persist(ctx)
}

// Remove deletes the transaction with the given id and reverses its balance
// effect. Removing an unknown id is a no-op, which makes Remove idempotent.
func (l *Ledger) Remove(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, tx := range l.transactions {
		if tx.ID != id {
			continue
		}
		if tx.Type == domain.Credit {
			l.balance -= tx.Amount
		} else {
			l.balance += tx.Amount
		}
		l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
		l.persist(ctx)
		return
	}
}

// SetBalance overrides the balance independently of transaction history,
// used for manual correction of the bank-balance figure.
func (l *Ledger) SetBalance(ctx context.Context, value float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balance = value
	l.persist(ctx)
}

// Balance returns the current running balance.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Transactions returns a copy of the transaction list, newest first.
func (l *Ledger) Transactions() []domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Snapshot returns the transaction list and balance together, for handing to
// the analytics functions.
func (l *Ledger) Snapshot() ([]domain.Transaction, float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out, l.balance
}

// persist writes both namespaces. Best-effort: a failed write must not fail
// the mutation that triggered it. Caller holds the lock.
func (l *Ledger) persist(ctx context.Context) {
	data, err := json.Marshal(l.transactions)
	if err != nil {
		l.log.Error().Err(err).Str("identity", l.identity).Msg("Failed to encode ledger snapshot")
	} else if err := l.kv.Put(ctx, store.NamespaceLedger, l.identity, data); err != nil {
		l.log.Error().Err(err).Str("identity", l.identity).Msg("Failed to persist ledger snapshot")
	}

	bal := strconv.FormatFloat(l.balance, 'f', -1, 64)
	if err := l.kv.Put(ctx, store.NamespaceBalance, l.identity, []byte(bal)); err != nil {
		l.log.Error().Err(err).Str("identity", l.identity).Msg("Failed to persist balance")
	}
}
