package storage

import (
	"database/sql"
	"fmt"
	"time"

	"tracker/internal/core"
)

// Sync states for the export pipeline.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

const (
	insertTransactionSQL = `
		INSERT INTO transactions (id, kind, amount_cents, category, description, image_url, occurred_at, sync_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	updateTransactionSQL = `
		UPDATE transactions
		SET kind = ?, amount_cents = ?, category = ?, description = ?, image_url = ?, occurred_at = ?, sync_status = ?, updated_at = ?
		WHERE id = ?`

	deleteTransactionSQL = `DELETE FROM transactions WHERE id = ?`

	selectTransactionSQL = `
		SELECT id, kind, amount_cents, category, description, image_url, occurred_at, created_at, updated_at
		FROM transactions WHERE id = ?`

	selectAllTransactionsSQL = `
		SELECT id, kind, amount_cents, category, description, image_url, occurred_at, created_at, updated_at
		FROM transactions ORDER BY occurred_at DESC, created_at DESC`

	selectTransactionsInRangeSQL = `
		SELECT id, kind, amount_cents, category, description, image_url, occurred_at, created_at, updated_at
		FROM transactions
		WHERE occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at DESC, created_at DESC`

	selectPendingSyncSQL = `
		SELECT id FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY created_at ASC
		LIMIT ?`

	updateSyncStatusSQL = `UPDATE transactions SET sync_status = ?, updated_at = ? WHERE id = ?`
)

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t          core.Transaction
		kind       string
		cents      int64
		occurredAt time.Time
	)
	err := row.Scan(&t.ID, &kind, &cents, &t.Category, &t.Description, &t.ImageURL,
		&occurredAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Kind = core.Kind(kind)
	t.Amount = core.Money{Cents: cents}
	// Stored instants are UTC-midnight already; renormalize in case the
	// driver handed back a different zone representation.
	t.OccurredAt = core.DateOf(occurredAt.UTC())
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
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
