package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store/memory"
)

func newTestLedger(t *testing.T) (*Ledger, *memory.Store) {
	t.Helper()
	kv := memory.New()
	return Open(context.Background(), kv, "user-1", zerolog.Nop()), kv
}

func debit(amount float64) domain.Transaction {
	return domain.Transaction{
		ID:       domain.NewTransactionID(),
		Amount:   amount,
		Merchant: "shop",
		Category: domain.CategoryFood,
		Type:     domain.Debit,
		Date:     time.Now(),
	}
}

func credit(amount float64) domain.Transaction {
	return domain.Transaction{
		ID:       domain.NewTransactionID(),
		Amount:   amount,
		Merchant: "employer",
		Category: domain.CategoryOther,
		Type:     domain.Credit,
		Date:     time.Now(),
	}
}

func TestOpenDefaults(t *testing.T) {
	l, _ := newTestLedger(t)

	if got := l.Balance(); got != DefaultBalance {
		t.Errorf("Balance() = %v, want %v", got, DefaultBalance)
	}
	if got := l.Transactions(); len(got) != 0 {
		t.Errorf("Expected empty ledger, got %d transactions", len(got))
	}
}

func TestAppendAdjustsBalance(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	l.Append(ctx, debit(30))
	l.Append(ctx, debit(20))
	l.Append(ctx, credit(200))

	// spent 50, income 200: balance moves by +150 from the default
	if got := l.Balance(); got != DefaultBalance+150 {
		t.Errorf("Balance() = %v, want %v", got, DefaultBalance+150)
	}
}

func TestAppendInsertsNewestFirst(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	first := debit(10)
	second := debit(20)
	l.Append(ctx, first)
	l.Append(ctx, second)

	txs := l.Transactions()
	if len(txs) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID != second.ID {
		t.Errorf("Expected newest transaction first, got %q", txs[0].ID)
	}
}

func TestRemoveReversesBalanceEffect(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	d := debit(75)
	l.Append(ctx, d)
	l.Remove(ctx, d.ID)

	if got := l.Balance(); got != DefaultBalance {
		t.Errorf("Balance() = %v, want %v after removing the only debit", got, DefaultBalance)
	}
	if got := l.Transactions(); len(got) != 0 {
		t.Errorf("Expected empty ledger after removal, got %d transactions", len(got))
	}

	c := credit(40)
	l.Append(ctx, c)
	l.Remove(ctx, c.ID)
	if got := l.Balance(); got != DefaultBalance {
		t.Errorf("Balance() = %v, want %v after removing the only credit", got, DefaultBalance)
	}
}

func TestRemoveUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	d := debit(75)
	l.Append(ctx, d)

	l.Remove(ctx, "no-such-id")
	l.Remove(ctx, d.ID)
	l.Remove(ctx, d.ID) // second removal of the same id

	if got := l.Balance(); got != DefaultBalance {
		t.Errorf("Balance() = %v, want %v", got, DefaultBalance)
	}
}

func TestSetBalanceOverrides(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	l.Append(ctx, debit(100))
	l.SetBalance(ctx, 5000)

	if got := l.Balance(); got != 5000 {
		t.Errorf("Balance() = %v, want 5000", got)
	}

	// Subsequent mutations adjust from the override.
	l.Append(ctx, debit(100))
	if got := l.Balance(); got != 4900 {
		t.Errorf("Balance() = %v, want 4900", got)
	}
}

func TestPersistenceRoundtrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	l := Open(ctx, kv, "user-1", zerolog.Nop())
	d := debit(30)
	l.Append(ctx, d)
	l.Append(ctx, credit(200))
	l.SetBalance(ctx, 1234.5)

	reopened := Open(ctx, kv, "user-1", zerolog.Nop())
	if got := reopened.Balance(); got != 1234.5 {
		t.Errorf("Balance() = %v after reopen, want 1234.5", got)
	}
	txs := reopened.Transactions()
	if len(txs) != 2 {
		t.Fatalf("Expected 2 transactions after reopen, got %d", len(txs))
	}
	if txs[1].ID != d.ID {
		t.Errorf("Expected original ordering to survive reopen")
	}
}

func TestIdentityIsolation(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	a := Open(ctx, kv, "user-a", zerolog.Nop())
	a.Append(ctx, debit(500))

	b := Open(ctx, kv, "user-b", zerolog.Nop())
	if got := b.Balance(); got != DefaultBalance {
		t.Errorf("user-b Balance() = %v, want untouched default %v", got, DefaultBalance)
	}
	if got := b.Transactions(); len(got) != 0 {
		t.Errorf("user-b should have no transactions, got %d", len(got))
	}
}

func TestOpenWithCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	if err := kv.Put(ctx, store.NamespaceLedger, "user-1", []byte("{not json")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := kv.Put(ctx, store.NamespaceBalance, "user-1", []byte("garbage")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	l := Open(ctx, kv, "user-1", zerolog.Nop())
	if got := l.Balance(); got != DefaultBalance {
		t.Errorf("Balance() = %v, want default for corrupt data", got)
	}
	if got := l.Transactions(); len(got) != 0 {
		t.Errorf("Expected empty ledger for corrupt data, got %d transactions", len(got))
	}
}
