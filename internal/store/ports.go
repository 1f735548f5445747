// Package store declares the ports the finbook services depend on. Concrete
// adapters live in internal/storage (SQLite) and internal/store/memory.
package store

import (
	"context"
	"errors"

	"finbook/internal/core"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

type (
	TransactionStore interface {
		// ListTransactions returns every transaction, oldest first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		// AddTransaction stores the transaction and returns its id.
		AddTransaction(ctx context.Context, t core.Transaction) (string, error)
		// AddTransactions bulk-stores an import batch, returning the count inserted.
		AddTransactions(ctx context.Context, txns []core.Transaction) (int, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	GoalStore interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
		GetGoal(ctx context.Context, id string) (core.Goal, error)
		AddGoal(ctx context.Context, g core.Goal) (string, error)
		// CompleteGoal marks a goal completed at the given date. Completion
		// is one-way; completing an already-completed goal is a no-op.
		CompleteGoal(ctx context.Context, id string, at core.Date) error
		DeleteGoal(ctx context.Context, id string) error
	}

	// BudgetStore is the injected key-value plan store: plans are values
	// keyed by "YYYY-MM", and the computation core never sees the handle.
	BudgetStore interface {
		// GetBudget returns the plan for the month key; ok is false when no
		// plan has been saved for that month.
		GetBudget(ctx context.Context, monthKey string) (plan core.BudgetPlan, ok bool, err error)
		SetBudget(ctx context.Context, monthKey string, plan core.BudgetPlan) error
	}

	// TransactionExporter mirrors transactions to an external sink (the
	// Google Sheets adapter in production, an in-memory sink in tests).
	TransactionExporter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}
)
