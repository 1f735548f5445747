package services

import (
	"context"
	"errors"
	"testing"

	"finbook/internal/core"
	"finbook/internal/planner"
	"finbook/internal/store"
	"finbook/internal/store/memory"
)

type recordingPublisher struct {
	synced  []string
	deleted []string
	err     error
}

func (p *recordingPublisher) PublishTransactionSync(_ context.Context, id string) error {
	if p.err != nil {
		return p.err
	}
	p.synced = append(p.synced, id)
	return nil
}

func (p *recordingPublisher) PublishTransactionDelete(_ context.Context, id string) error {
	if p.err != nil {
		return p.err
	}
	p.deleted = append(p.deleted, id)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestTransactionServiceAdd(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTransactionService(memory.New(), pub)

	got, err := svc.Add(context.Background(), core.RawTransaction{
		Date: "2024-01-15", Amount: "42.50", Type: "expense", Account: "checking",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got.ID == "" {
		t.Error("expected assigned ID")
	}
	if got.Amount.Cents != 4250 {
		t.Errorf("expected 4250 cents, got %d", got.Amount.Cents)
	}
	if got.Category != core.Uncategorized {
		t.Errorf("expected default category, got %q", got.Category)
	}
	if len(pub.synced) != 1 || pub.synced[0] != got.ID {
		t.Errorf("expected sync publish for %s, got %v", got.ID, pub.synced)
	}
}

func TestTransactionServiceAddRejectsEmptyAccount(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	_, err := svc.Add(context.Background(), core.RawTransaction{Amount: "10.00", Type: "expense"})
	if !errors.Is(err, core.ErrEmptyAccount) {
		t.Errorf("expected ErrEmptyAccount, got %v", err)
	}
}

func TestTransactionServiceAddSurvivesPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewTransactionService(memory.New(), pub)

	got, err := svc.Add(context.Background(), core.RawTransaction{
		Amount: "10.00", Type: "expense", Account: "checking",
	})
	if err != nil {
		t.Fatalf("Add should not fail on publish error: %v", err)
	}

	stored, err := svc.Get(context.Background(), got.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.ID != got.ID {
		t.Error("transaction should be stored despite publish failure")
	}
}

func TestTransactionServiceImport(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTransactionService(memory.New(), pub)

	raw := []core.RawTransaction{
		{Date: "2024-01-15", Amount: "42.50", Type: "expense", Account: "checking", Category: "Food"},
		{Date: "bad", Amount: "bad", Type: "expense", Account: "checking"},
	}
	report, err := svc.Import(context.Background(), raw)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Imported != 2 {
		t.Errorf("expected 2 imported, got %d", report.Imported)
	}
	if report.BadAmounts != 1 || report.BadDates != 1 {
		t.Errorf("unexpected repair counts: %+v", report)
	}
	if len(pub.synced) != 2 {
		t.Errorf("expected 2 sync publishes, got %d", len(pub.synced))
	}

	txns, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(txns) != 2 {
		t.Errorf("expected 2 stored transactions, got %d", len(txns))
	}
}

func TestTransactionServiceImportSkipsBlankAccountRow(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTransactionService(memory.New(), pub)

	raw := []core.RawTransaction{
		{Date: "2024-01-15", Amount: "42.50", Type: "expense", Account: "checking", Category: "Food"},
		{Date: "2024-01-16", Amount: "10.00", Type: "expense", Account: "", Category: "Food"},
		{Date: "2024-01-17", Amount: "5.00", Type: "expense", Account: "checking", Category: "Food"},
	}
	report, err := svc.Import(context.Background(), raw)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Imported != 2 {
		t.Errorf("expected 2 imported, got %d", report.Imported)
	}
	if report.BadAccounts != 1 {
		t.Errorf("expected 1 bad account, got %d", report.BadAccounts)
	}
	if len(pub.synced) != 2 {
		t.Errorf("expected 2 sync publishes, got %d", len(pub.synced))
	}

	txns, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(txns) != 2 {
		t.Errorf("expected 2 stored transactions, got %d", len(txns))
	}
}

func TestTransactionServiceDelete(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTransactionService(memory.New(), pub)

	got, err := svc.Add(context.Background(), core.RawTransaction{
		Amount: "10.00", Type: "expense", Account: "checking",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Delete(context.Background(), got.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(pub.deleted) != 1 {
		t.Errorf("expected delete publish, got %v", pub.deleted)
	}
	if _, err := svc.Get(context.Background(), got.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGoalServiceCreate(t *testing.T) {
	svc := NewGoalService(memory.New())

	goal, err := svc.Create(context.Background(), "Save for a trip to Japan")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if goal.ID == "" {
		t.Error("expected assigned ID")
	}
	if len(goal.Steps) != planner.PlanSteps {
		t.Errorf("expected %d steps, got %d", planner.PlanSteps, len(goal.Steps))
	}
	if goal.Timeframe != "6-12 months" {
		t.Errorf("expected travel timeframe, got %q", goal.Timeframe)
	}
	if goal.Completed {
		t.Error("new goal should not be completed")
	}
}

func TestGoalServiceCreateRejectsEmptyText(t *testing.T) {
	svc := NewGoalService(memory.New())
	if _, err := svc.Create(context.Background(), "   "); !errors.Is(err, core.ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestGoalServiceComplete(t *testing.T) {
	svc := NewGoalService(memory.New())

	goal, err := svc.Create(context.Background(), "pay off my credit card")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done, err := svc.Complete(context.Background(), goal.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !done.Completed {
		t.Error("goal should be completed")
	}
	firstCompletedAt := done.CompletedAt

	// Completing again is a no-op and keeps the original completion date.
	again, err := svc.Complete(context.Background(), goal.ID)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	if !again.CompletedAt.Equal(firstCompletedAt.Time) {
		t.Error("second completion should not change completed_at")
	}
}

func TestGoalServiceCompleteMissing(t *testing.T) {
	svc := NewGoalService(memory.New())
	if _, err := svc.Complete(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
