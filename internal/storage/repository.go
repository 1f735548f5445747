package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"finbook/internal/core"
	applog "finbook/internal/log"
	"finbook/internal/store"
)

const dateFormat = "2006-01-02"

// SQLiteRepository implements the store ports on a local SQLite database.
// Transactions carry export-sync bookkeeping for the worker; deletes are
// soft so an in-flight sync never references a vanished row.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const txnColumns = "id, date, title, amount_cents, type, account, category, notes"

func scanTransaction(row interface{ Scan(dest ...any) error }) (core.Transaction, error) {
	var t core.Transaction
	var date string
	var cents int64
	var typ string
	if err := row.Scan(&t.ID, &date, &t.Title, &cents, &typ, &t.Account, &t.Category, &t.Notes); err != nil {
		return core.Transaction{}, err
	}
	t.Amount = core.Money{Cents: cents}
	t.Type = core.TransactionType(typ)
	if date != "" {
		if parsed, ok := core.ParseDate(date); ok {
			t.Date = parsed
		}
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+txnColumns+" FROM transactions WHERE deleted_at IS NULL ORDER BY date, created_at")
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+txnColumns+" FROM transactions WHERE id = ? AND deleted_at IS NULL", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	date := ""
	if !t.Date.IsZero() {
		date = t.Date.Format(dateFormat)
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO transactions (id, date, title, amount_cents, type, account, category, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, date, t.Title, t.Amount.Cents, string(t.Type), t.Account, t.Category, t.Notes)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		applog.FieldTransactionID, t.ID,
		"type", string(t.Type),
		applog.FieldAccount, t.Account,
		applog.FieldAmountCents, t.Amount.Cents)

	return t.ID, nil
}

func (r *SQLiteRepository) AddTransactions(ctx context.Context, txns []core.Transaction) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO transactions (id, date, title, amount_cents, type, account, category, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("transaction %d: %w", inserted, err)
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		date := ""
		if !t.Date.IsZero() {
			date = t.Date.Format(dateFormat)
		}
		if _, err := stmt.ExecContext(ctx, t.ID, date, t.Title, t.Amount.Cents, string(t.Type), t.Account, t.Category, t.Notes); err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	slog.InfoContext(ctx, "Transactions imported", "count", inserted)
	return inserted, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// PendingSync identifies a transaction that has not been mirrored to the
// external exporter yet.
type PendingSync struct {
	ID        string
	CreatedAt string
}

func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, created_at FROM transactions WHERE synced_at IS NULL AND sync_error = 0 AND deleted_at IS NULL ORDER BY created_at LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var out []PendingSync
	for rows.Next() {
		var p PendingSync
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET synced_at = CURRENT_TIMESTAMP, sync_error = 0 WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET sync_error = 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", applog.FieldTransactionID, id)
	return nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, text, steps, timeframe, completed, created_at, COALESCE(completed_at, '') FROM goals ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGoal(row interface{ Scan(dest ...any) error }) (core.Goal, error) {
	var g core.Goal
	var steps, createdAt, completedAt string
	var completed int
	if err := row.Scan(&g.ID, &g.Text, &steps, &g.Timeframe, &completed, &createdAt, &completedAt); err != nil {
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	if err := json.Unmarshal([]byte(steps), &g.Steps); err != nil {
		return core.Goal{}, fmt.Errorf("decode goal steps: %w", err)
	}
	g.Completed = completed != 0
	if d, ok := core.ParseDate(createdAt); ok {
		g.CreatedAt = d
	}
	if d, ok := core.ParseDate(completedAt); ok {
		g.CompletedAt = d
	}
	return g, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, text, steps, timeframe, completed, created_at, COALESCE(completed_at, '') FROM goals WHERE id = ?", id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %s: %w", id, store.ErrNotFound)
	}
	return g, err
}

func (r *SQLiteRepository) AddGoal(ctx context.Context, g core.Goal) (string, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	steps, err := json.Marshal(g.Steps)
	if err != nil {
		return "", fmt.Errorf("encode goal steps: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO goals (id, text, steps, timeframe, completed, created_at) VALUES (?, ?, ?, ?, 0, ?)",
		g.ID, g.Text, string(steps), g.Timeframe, g.CreatedAt.Format(dateFormat))
	if err != nil {
		return "", fmt.Errorf("insert goal: %w", err)
	}
	return g.ID, nil
}

func (r *SQLiteRepository) CompleteGoal(ctx context.Context, id string, at core.Date) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE goals SET completed = 1, completed_at = ? WHERE id = ? AND completed = 0",
		at.Format(dateFormat), id)
	if err != nil {
		return fmt.Errorf("complete goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Completing twice is a no-op; only a missing goal is an error.
		if _, err := r.GetGoal(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, monthKey string) (core.BudgetPlan, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, "SELECT plan FROM budgets WHERE month_key = ?", monthKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetPlan{}, false, nil
	}
	if err != nil {
		return core.BudgetPlan{}, false, fmt.Errorf("get budget: %w", err)
	}
	var plan core.BudgetPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return core.BudgetPlan{}, false, fmt.Errorf("decode budget plan: %w", err)
	}
	return plan, true, nil
}

func (r *SQLiteRepository) SetBudget(ctx context.Context, monthKey string, plan core.BudgetPlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode budget plan: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO budgets (month_key, plan, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT(month_key) DO UPDATE SET plan = excluded.plan, updated_at = CURRENT_TIMESTAMP",
		monthKey, string(raw))
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}
