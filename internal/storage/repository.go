package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an id does not match any stored transaction.
var ErrNotFound = errors.New("transaction not found")

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

// Ping verifies the database connection, for readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateTransaction persists a new transaction as pending export.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, insertTransactionSQL,
		t.ID, string(t.Kind), t.Amount.Cents, t.Category, t.Description, t.ImageURL,
		t.OccurredAt, SyncPending, now, now)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"kind", t.Kind,
		"amount_cents", t.Amount.Cents,
		"category", t.Category,
		"occurred_at", core.DateKey(t.OccurredAt))
	return nil
}

// UpdateTransaction replaces all user-supplied fields and resets the row to
// pending so the export pipeline picks up the new version.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, updateTransactionSQL,
		string(t.Kind), t.Amount.Cents, t.Category, t.Description, t.ImageURL,
		t.OccurredAt, SyncPending, time.Now().UTC(), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction updated", "id", t.ID, "kind", t.Kind, "amount_cents", t.Amount.Cents)
	return nil
}

// DeleteTransaction removes a transaction by id.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteTransactionSQL, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// GetTransaction retrieves a single transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, selectTransactionSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns every stored transaction, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectAllTransactionsSQL)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListTransactionsInRange returns transactions with start <= occurred_at < end.
func (r *SQLiteRepository) ListTransactionsInRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransactionsInRangeSQL, start, end)
	if err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", err)
	}
	return collectTransactions(rows)
}

// GetPendingSync returns ids of transactions not yet exported, oldest first.
// The export worker uses this as a backup for lost queue messages.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, selectPendingSyncSQL, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending ids: %w", err)
	}
	return ids, nil
}

// MarkSynced records a successful export.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := r.setSyncStatus(ctx, id, SyncSynced); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed export attempt.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if err := r.setSyncStatus(ctx, id, SyncError); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, updateSyncStatusSQL, status, time.Now().UTC(), id)
	return err
}
