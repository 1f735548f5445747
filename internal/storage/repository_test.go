package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finbook/internal/core"
	"finbook/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleTransaction() core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(2024, 1, 15),
		Title:    "Groceries",
		Amount:   core.Money{Cents: 4250},
		Type:     core.Expense,
		Account:  "checking",
		Category: "Food",
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.AddTransaction(ctx, sampleTransaction())
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if id == "" {
		t.Fatal("expected assigned ID")
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Amount.Cents != 4250 || got.Category != "Food" || got.Type != core.Expense {
		t.Errorf("unexpected transaction: %+v", got)
	}
	if got.Date.MonthKey() != "2024-01" {
		t.Errorf("expected month key 2024-01, got %s", got.Date.MonthKey())
	}

	txns, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
}

func TestTransactionUndatedStoredAsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	txn := sampleTransaction()
	txn.Date = core.Date{}
	id, err := repo.AddTransaction(ctx, txn)
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if !got.Date.IsZero() {
		t.Errorf("expected zero date, got %v", got.Date)
	}
}

func TestDeleteTransactionIsSoft(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.AddTransaction(ctx, sampleTransaction())
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if err := repo.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAddTransactionsBatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	batch := []core.Transaction{sampleTransaction(), sampleTransaction()}
	inserted, err := repo.AddTransactions(ctx, batch)
	if err != nil {
		t.Fatalf("AddTransactions: %v", err)
	}
	if inserted != 2 {
		t.Errorf("expected 2 inserted, got %d", inserted)
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.AddTransaction(ctx, sampleTransaction())
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("expected 1 pending transaction, got %+v", pending)
	}

	if err := repo.MarkSynced(ctx, id); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	pending, err = repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending after MarkSynced, got %d", len(pending))
	}
}

func TestMarkSyncErrorExcludesFromPending(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.AddTransaction(ctx, sampleTransaction())
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := repo.MarkSyncError(ctx, id); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("errored transactions should not be retried by the sweep, got %d", len(pending))
	}
}

func TestGoalRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	goal := core.Goal{
		Text: "Save for a trip",
		Steps: []core.PlanStep{
			{Step: 1, Action: "Set a target", Timeframe: "This week", Description: "Pick a number"},
		},
		Timeframe: "6-12 months",
		CreatedAt: core.NewDate(2024, 1, 15),
	}
	id, err := repo.AddGoal(ctx, goal)
	if err != nil {
		t.Fatalf("AddGoal: %v", err)
	}

	got, err := repo.GetGoal(ctx, id)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if got.Text != goal.Text || len(got.Steps) != 1 || got.Steps[0].Action != "Set a target" {
		t.Errorf("unexpected goal: %+v", got)
	}
	if got.Completed {
		t.Error("new goal should not be completed")
	}

	if err := repo.CompleteGoal(ctx, id, core.NewDate(2024, 2, 1)); err != nil {
		t.Fatalf("CompleteGoal: %v", err)
	}
	got, err = repo.GetGoal(ctx, id)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if !got.Completed || got.CompletedAt.IsZero() {
		t.Errorf("expected completed goal, got %+v", got)
	}
	firstCompletedAt := got.CompletedAt

	// Second completion is a no-op.
	if err := repo.CompleteGoal(ctx, id, core.NewDate(2024, 3, 1)); err != nil {
		t.Fatalf("second CompleteGoal: %v", err)
	}
	got, _ = repo.GetGoal(ctx, id)
	if !got.CompletedAt.Equal(firstCompletedAt.Time) {
		t.Error("second completion should not change completed_at")
	}

	if err := repo.DeleteGoal(ctx, id); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	if _, err := repo.GetGoal(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCompleteGoalMissing(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.CompleteGoal(context.Background(), "nope", core.NewDate(2024, 1, 1))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	plan := core.BudgetPlan{
		ExpectedIncome: core.Money{Cents: 400000},
		Categories: map[string]core.BudgetEntry{
			"Food": {Value: 25, IsPercentage: true},
			"Rent": {Value: 1200, IsPercentage: false},
		},
	}
	if err := repo.SetBudget(ctx, "2024-01", plan); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	got, found, err := repo.GetBudget(ctx, "2024-01")
	if err != nil {
		t.Fatalf("GetBudget: %v", err)
	}
	if !found {
		t.Fatal("expected budget to be found")
	}
	if got.ExpectedIncome.Cents != 400000 || len(got.Categories) != 2 {
		t.Errorf("unexpected plan: %+v", got)
	}

	// Upsert replaces the plan.
	plan.ExpectedIncome = core.Money{Cents: 500000}
	if err := repo.SetBudget(ctx, "2024-01", plan); err != nil {
		t.Fatalf("SetBudget upsert: %v", err)
	}
	got, _, _ = repo.GetBudget(ctx, "2024-01")
	if got.ExpectedIncome.Cents != 500000 {
		t.Errorf("expected upserted income 500000, got %d", got.ExpectedIncome.Cents)
	}

	_, found, err = repo.GetBudget(ctx, "2024-02")
	if err != nil {
		t.Fatalf("GetBudget: %v", err)
	}
	if found {
		t.Error("expected no budget for 2024-02")
	}
}
