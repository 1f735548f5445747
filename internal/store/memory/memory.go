// Package memory provides in-memory store implementations used as the dev
// backend and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"finbook/internal/core"
	"finbook/internal/store"
)

type Store struct {
	mu      sync.Mutex
	txns    []core.Transaction
	goals   []core.Goal
	budgets map[string]core.BudgetPlan
}

func New() *Store {
	return &Store{budgets: make(map[string]core.BudgetPlan)}
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txns...), nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txns {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
}

func (s *Store) AddTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.txns = append(s.txns, t)
	return t.ID, nil
}

func (s *Store) AddTransactions(_ context.Context, txns []core.Transaction) (int, error) {
	// Validate the whole batch up front: all rows go in or none do,
	// matching the SQLite adapter's transactional insert.
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return 0, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range txns {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		s.txns = append(s.txns, t)
	}
	return len(txns), nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.txns {
		if t.ID == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals...), nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, fmt.Errorf("goal %s: %w", id, store.ErrNotFound)
}

func (s *Store) AddGoal(_ context.Context, g core.Goal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	s.goals = append(s.goals, g)
	return g.ID, nil
}

func (s *Store) CompleteGoal(_ context.Context, id string, at core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID != id {
			continue
		}
		if g.Completed {
			return nil
		}
		s.goals[i].Completed = true
		s.goals[i].CompletedAt = at
		return nil
	}
	return fmt.Errorf("goal %s: %w", id, store.ErrNotFound)
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("goal %s: %w", id, store.ErrNotFound)
}

func (s *Store) GetBudget(_ context.Context, monthKey string) (core.BudgetPlan, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.budgets[monthKey]
	return plan, ok, nil
}

func (s *Store) SetBudget(_ context.Context, monthKey string, plan core.BudgetPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[monthKey] = plan
	return nil
}

// Exporter is an in-memory TransactionExporter used by worker tests.
type Exporter struct {
	mu   sync.Mutex
	rows []core.Transaction
}

func NewExporter() *Exporter { return &Exporter{} }

func (e *Exporter) Append(_ context.Context, t core.Transaction) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = append(e.rows, t)
	return fmt.Sprintf("mem:%d", len(e.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (e *Exporter) Rows() []core.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.Transaction(nil), e.rows...)
}
