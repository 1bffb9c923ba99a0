package goals

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/d4-dhiraj/SpendWise-AI/internal/domain"
	"github.com/d4-dhiraj/SpendWise-AI/internal/ledger"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store/memory"
)

func newTestTracker(t *testing.T, identity string, kv *memory.Store) (*Tracker, *ledger.Ledger) {
	t.Helper()
	ctx := context.Background()
	l := ledger.Open(ctx, kv, identity, zerolog.Nop())
	return Open(ctx, kv, kv, l, identity, zerolog.Nop()), l
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t, "user-1", memory.New())

	tracker.Create(ctx, "Laptop", 1000)

	goal, ok := tracker.Goal()
	if !ok {
		t.Fatal("Expected an active goal after Create")
	}
	if goal.Title != "Laptop" || goal.TargetAmount != 1000 || goal.CurrentSaved != 0 {
		t.Errorf("Unexpected goal: %+v", goal)
	}
	if goal.ID == "" {
		t.Error("Expected goal to have an id")
	}
}

func TestCreateIgnoresInvalidInput(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t, "user-1", memory.New())

	tracker.Create(ctx, "", 1000)
	if _, ok := tracker.Goal(); ok {
		t.Error("Empty title should not create a goal")
	}

	tracker.Create(ctx, "Laptop", 0)
	if _, ok := tracker.Goal(); ok {
		t.Error("Zero target should not create a goal")
	}

	tracker.Create(ctx, "Laptop", -50)
	if _, ok := tracker.Goal(); ok {
		t.Error("Negative target should not create a goal")
	}
}

func TestCreateIgnoredWhileGoalActive(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t, "user-1", memory.New())

	tracker.Create(ctx, "Laptop", 1000)
	tracker.Create(ctx, "Bike", 500)

	goal, _ := tracker.Goal()
	if goal.Title != "Laptop" {
		t.Errorf("Second Create should be ignored, goal is %q", goal.Title)
	}
}

func TestContributeClampsAndEmitsFullAmount(t *testing.T) {
	ctx := context.Background()
	tracker, l := newTestTracker(t, "user-1", memory.New())

	tracker.Create(ctx, "Laptop", 1000)
	tracker.Contribute(ctx, 900)
	tracker.Contribute(ctx, 300) // only 100 fits, but the full 300 leaves the balance

	goal, _ := tracker.Goal()
	if goal.CurrentSaved != 1000 {
		t.Errorf("CurrentSaved = %v, want clamped 1000", goal.CurrentSaved)
	}

	txs := l.Transactions()
	if len(txs) != 2 {
		t.Fatalf("Expected 2 ledger transactions, got %d", len(txs))
	}
	latest := txs[0]
	if latest.Amount != 300 {
		t.Errorf("Latest transaction amount = %v, want the full requested 300", latest.Amount)
	}
	if latest.Type != domain.Debit {
		t.Errorf("Contribution transaction type = %q, want debit", latest.Type)
	}
	if latest.Merchant != "Savings: Laptop" {
		t.Errorf("Merchant = %q", latest.Merchant)
	}

	if got := l.Balance(); got != ledger.DefaultBalance-1200 {
		t.Errorf("Balance = %v, want %v", got, ledger.DefaultBalance-1200)
	}
}

func TestContributeWithoutGoalIsNoOp(t *testing.T) {
	ctx := context.Background()
	tracker, l := newTestTracker(t, "user-1", memory.New())

	tracker.Contribute(ctx, 100)

	if len(l.Transactions()) != 0 {
		t.Error("Contribute without a goal should not touch the ledger")
	}
}

func TestContributeIgnoresNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	tracker, l := newTestTracker(t, "user-1", memory.New())

	tracker.Create(ctx, "Laptop", 1000)
	tracker.Contribute(ctx, 0)
	tracker.Contribute(ctx, -10)

	goal, _ := tracker.Goal()
	if goal.CurrentSaved != 0 {
		t.Errorf("CurrentSaved = %v, want 0", goal.CurrentSaved)
	}
	if len(l.Transactions()) != 0 {
		t.Error("Invalid contributions should not emit transactions")
	}
}

func TestWithdrawClampsAndEmitsFullAmount(t *testing.T) {
	ctx := context.Background()
	tracker, l := newTestTracker(t, "user-1", memory.New())

	tracker.Create(ctx, "Laptop", 1000)
	tracker.Contribute(ctx, 100)
	tracker.Withdraw(ctx, 500) // only 100 is saved, but the full 500 comes back

	goal, _ := tracker.Goal()
	if goal.CurrentSaved != 0 {
		t.Errorf("CurrentSaved = %v, want clamped 0", goal.CurrentSaved)
	}

	txs := l.Transactions()
	if len(txs) != 2 {
		t.Fatalf("Expected 2 ledger transactions, got %d", len(txs))
	}
	latest := txs[0]
	if latest.Amount != 500 {
		t.Errorf("Withdrawal amount = %v, want the full requested 500", latest.Amount)
	}
	if latest.Type != domain.Credit {
		t.Errorf("Withdrawal transaction type = %q, want credit", latest.Type)
	}
	if latest.Merchant != "Withdraw: Laptop" {
		t.Errorf("Merchant = %q", latest.Merchant)
	}
}

func TestDeleteKeepsLedgerTransactions(t *testing.T) {
	ctx := context.Background()
	tracker, l := newTestTracker(t, "user-1", memory.New())

	tracker.Create(ctx, "Laptop", 1000)
	tracker.Contribute(ctx, 200)
	tracker.Delete(ctx)

	if _, ok := tracker.Goal(); ok {
		t.Error("Expected NoGoal after Delete")
	}
	if len(l.Transactions()) != 1 {
		t.Error("Delete must not remove contribution transactions")
	}
	if got := l.Balance(); got != ledger.DefaultBalance-200 {
		t.Errorf("Balance = %v, want %v", got, ledger.DefaultBalance-200)
	}
}

func TestPublishAndImport(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	publisher, _ := newTestTracker(t, "user-a", kv)
	publisher.Create(ctx, "Trip", 800)
	publisher.Contribute(ctx, 250)
	publisher.Publish(ctx)

	importer, _ := newTestTracker(t, "user-b", kv)
	if !importer.Import(ctx) {
		t.Fatal("Expected import to succeed")
	}

	source, _ := publisher.Goal()
	imported, _ := importer.Goal()
	if imported.Title != "Trip" || imported.TargetAmount != 800 {
		t.Errorf("Unexpected imported goal: %+v", imported)
	}
	// The saved amount copies over verbatim; no transactions back it.
	if imported.CurrentSaved != 250 {
		t.Errorf("CurrentSaved = %v, want 250 copied from the published goal", imported.CurrentSaved)
	}
	if imported.ID == source.ID {
		t.Error("Imported goal must get a fresh id")
	}
}

func TestImportRequiresNoGoal(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	publisher, _ := newTestTracker(t, "user-a", kv)
	publisher.Create(ctx, "Trip", 800)
	publisher.Publish(ctx)

	importer, _ := newTestTracker(t, "user-b", kv)
	importer.Create(ctx, "Bike", 400)

	if importer.Import(ctx) {
		t.Error("Import must be refused while a goal is active")
	}
	goal, _ := importer.Goal()
	if goal.Title != "Bike" {
		t.Errorf("Active goal should be untouched, got %q", goal.Title)
	}
}

func TestImportWithEmptySlot(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t, "user-1", memory.New())

	if tracker.Import(ctx) {
		t.Error("Import from an empty slot should fail")
	}
}

func TestPublishLastWriterWins(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	a, _ := newTestTracker(t, "user-a", kv)
	a.Create(ctx, "Trip", 800)
	a.Publish(ctx)

	b, _ := newTestTracker(t, "user-b", kv)
	b.Create(ctx, "Camera", 600)
	b.Publish(ctx)

	importer, _ := newTestTracker(t, "user-c", kv)
	if !importer.Import(ctx) {
		t.Fatal("Expected import to succeed")
	}
	goal, _ := importer.Goal()
	if goal.Title != "Camera" {
		t.Errorf("Expected the latest published goal, got %q", goal.Title)
	}
}

func TestGoalSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	tracker, _ := newTestTracker(t, "user-1", kv)
	tracker.Create(ctx, "Laptop", 1000)
	tracker.Contribute(ctx, 150)

	reopened, _ := newTestTracker(t, "user-1", kv)
	goal, ok := reopened.Goal()
	if !ok {
		t.Fatal("Expected goal to survive reopen")
	}
	if goal.CurrentSaved != 150 {
		t.Errorf("CurrentSaved = %v after reopen, want 150", goal.CurrentSaved)
	}
}
