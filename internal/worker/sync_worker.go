// Package worker mirrors transactions from local storage to the external
// exporter, driven by AMQP messages with a periodic sweep as backup.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finbook/internal/amqp"
	applog "finbook/internal/log"
	"finbook/internal/storage"
	"finbook/internal/store"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	exporter  store.TransactionExporter
	batchSize int
}

func NewSyncWorker(repo *storage.SQLiteRepository, exporter store.TransactionExporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   repo,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleMessage processes a single sync message from AMQP.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	switch msg.Kind {
	case amqp.KindTransactionSync:
		return w.syncTransaction(ctx, msg.TransactionID)
	case amqp.KindTransactionDelete:
		// The row is soft-deleted locally and excluded from pending sync.
		// The exported mirror is append-only, so nothing to undo here.
		slog.InfoContext(ctx, "Transaction deleted locally, no exporter action",
			applog.FieldTransactionID, msg.TransactionID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown message kind, dropping", "kind", msg.Kind)
		return nil
	}
}

func (w *SyncWorker) syncTransaction(ctx context.Context, id string) error {
	t, err := w.storage.GetTransaction(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted before the message arrived.
		slog.InfoContext(ctx, "Transaction gone before sync, skipping", applog.FieldTransactionID, id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	rowRef, err := w.exporter.Append(ctx, t)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", applog.FieldTransactionID, id, applog.FieldError, markErr)
		}
		return fmt.Errorf("append transaction to exporter: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction synced", applog.FieldTransactionID, id, applog.FieldRowRef, rowRef)
	return nil
}

// ProcessPending syncs transactions that never got a message through,
// for example when the broker was down at write time.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending sync: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := w.syncTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending transaction",
				applog.FieldTransactionID, p.ID, applog.FieldError, err)
		}
	}
	return nil
}

// StartupSyncCheck recovers transactions missed during worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending sync for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		if err := w.syncTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				applog.FieldTransactionID, p.ID, applog.FieldError, err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}
