package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"finbook/internal/core"
	"finbook/internal/importer"
	applog "finbook/internal/log"
	"finbook/internal/store"
)

// SyncPublisher notifies the export worker about transaction changes.
// Publishing is best-effort; the worker also sweeps for pending rows.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, transactionID string) error
	PublishTransactionDelete(ctx context.Context, transactionID string) error
	Close() error
}

// TransactionService wraps the transaction store with normalization,
// batch import and sync notifications.
type TransactionService struct {
	store     store.TransactionStore
	publisher SyncPublisher
}

func NewTransactionService(s store.TransactionStore, publisher SyncPublisher) *TransactionService {
	return &TransactionService{store: s, publisher: publisher}
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// Add normalizes a single raw transaction and stores it. Sync publish
// failures are logged but do not fail the write.
func (s *TransactionService) Add(ctx context.Context, raw core.RawTransaction) (core.Transaction, error) {
	txns, _ := core.Normalize([]core.RawTransaction{raw})
	t := txns[0]
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.store.AddTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	t.ID = id

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionSync(ctx, id); err != nil {
			slog.WarnContext(ctx, "Failed to publish sync message", applog.FieldError, err, applog.FieldTransactionID, id)
		}
	}
	return t, nil
}

// Import parses and normalizes a batch of raw rows, storing every row
// that survives normalization.
func (s *TransactionService) Import(ctx context.Context, raw []core.RawTransaction) (importer.Report, error) {
	existing, err := s.store.ListTransactions(ctx)
	if err != nil {
		return importer.Report{}, fmt.Errorf("list existing transactions: %w", err)
	}
	known := knownCategories(existing)

	txns, report := importer.Import(raw, known)
	if len(txns) == 0 {
		return report, nil
	}
	for i := range txns {
		if txns[i].ID == "" {
			txns[i].ID = uuid.NewString()
		}
	}

	inserted, err := s.store.AddTransactions(ctx, txns)
	report.Imported = inserted
	if err != nil {
		return report, fmt.Errorf("import transactions: %w", err)
	}

	if s.publisher != nil {
		for _, t := range txns {
			if err := s.publisher.PublishTransactionSync(ctx, t.ID); err != nil {
				slog.WarnContext(ctx, "Failed to publish sync message", applog.FieldError, err, applog.FieldTransactionID, t.ID)
				break
			}
		}
	}
	return report, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	if s.publisher != nil {
		if err := s.publisher.PublishTransactionDelete(ctx, id); err != nil {
			slog.WarnContext(ctx, "Failed to publish delete message", applog.FieldError, err, applog.FieldTransactionID, id)
		}
	}
	return nil
}

func (s *TransactionService) Close() error {
	if s.publisher != nil {
		return s.publisher.Close()
	}
	return nil
}

func knownCategories(txns []core.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range txns {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, t.Category)
	}
	return out
}
