package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/sheets"
	"tracker/internal/storage"
)

// SyncStore is the slice of the repository the worker needs. Events carry
// only ids, so the worker always loads the current row before exporting.
type SyncStore interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	GetPendingSync(ctx context.Context, limit int) ([]string, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}

// ExportWorker moves transactions from SQLite to the backup spreadsheet.
// AMQP events drive the normal path, the pending scan covers lost messages.
type ExportWorker struct {
	store     SyncStore
	exporter  sheets.Exporter
	batchSize int
}

func NewExportWorker(store SyncStore, exporter sheets.Exporter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ExportWorker{
		store:     store,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleEvent processes a single transaction event from AMQP.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"event", event.Event,
		"id", event.ID)

	switch event.Event {
	case amqp.EventSync:
		return w.handleSync(ctx, event.ID)
	case amqp.EventDelete:
		return w.handleDelete(ctx, event.ID)
	default:
		return fmt.Errorf("unknown event %q", event.Event)
	}
}

func (w *ExportWorker) handleSync(ctx context.Context, id string) error {
	tx, err := w.store.GetTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted between publish and consume. The delete event that
		// follows cleans up the sheet row.
		slog.WarnContext(ctx, "Transaction gone before export, skipping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}
	return w.exportTransaction(ctx, tx)
}

func (w *ExportWorker) handleDelete(ctx context.Context, id string) error {
	if err := w.exporter.RemoveTransaction(ctx, id); err != nil {
		return fmt.Errorf("remove transaction from sheet: %w", err)
	}
	slog.InfoContext(ctx, "Removed transaction from sheet", "id", id)
	return nil
}

// ProcessPending exports transactions still marked pending. This is a
// backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	return w.processPendingBatch(ctx, w.batchSize)
}

// StartupCheck drains pending transactions at worker startup to recover
// from missed messages or worker downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	return w.processPendingBatch(ctx, w.batchSize*5)
}

func (w *ExportWorker) processPendingBatch(ctx context.Context, limit int) error {
	ids, err := w.store.GetPendingSync(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(ids))

	successCount := 0
	errorCount := 0
	for _, id := range ids {
		tx, err := w.store.GetTransaction(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load pending transaction", "id", id, "error", err)
			if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
			}
			errorCount++
			continue
		}
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction", "id", id, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Pending scan completed",
		"total", len(ids),
		"exported", successCount,
		"errors", errorCount)
	return nil
}

func (w *ExportWorker) exportTransaction(ctx context.Context, tx core.Transaction) error {
	ref, err := w.exporter.ExportTransaction(ctx, tx)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("export to sheet: %w", err)
	}

	if err := w.store.MarkSynced(ctx, tx.ID); err != nil {
		// The export itself worked, so don't fail the event.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", tx.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", tx.ID,
		"sheet_ref", ref,
		"amount_cents", tx.Amount.Cents)
	return nil
}
