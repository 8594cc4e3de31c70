// Package ledger orchestrates transaction writes and the aggregation reads
// exposed to the presentation layer. Writes validate and persist, then
// notify the export pipeline; reads never propagate store failures and
// degrade to zero/empty results instead.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tracker/internal/core"

	"github.com/google/uuid"
)

// Service wires the transaction store to the aggregation engine.
// The publisher is optional; without one, writes simply skip notification.
type Service struct {
	store Store
	pub   EventPublisher
}

func NewService(store Store, pub EventPublisher) *Service {
	return &Service{store: store, pub: pub}
}

// CreateTransaction validates and persists a new transaction, assigning
// its id. The export notification is best effort: a publish failure is
// logged but never fails a write that already reached the store.
func (s *Service) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	t.OccurredAt = core.DateOf(t.OccurredAt)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.publishSync(ctx, t.ID)
	return t, nil
}

// UpdateTransaction replaces all user fields of an existing transaction,
// including its kind.
func (s *Service) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	t.OccurredAt = core.DateOf(t.OccurredAt)
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	s.publishSync(ctx, t.ID)
	return nil
}

// DeleteTransaction removes a transaction by id.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if s.pub == nil {
		return nil
	}
	if err := s.pub.PublishTransactionDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", id, "error", err)
	}
	return nil
}

// ListTransactions returns all transactions, newest first. A store failure
// degrades to an empty list.
func (s *Service) ListTransactions(ctx context.Context) []core.Transaction {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "List transactions failed, returning empty result", "error", err)
		return nil
	}
	return transactions
}

// ListTransactionsForMonth returns the transactions of one calendar month.
func (s *Service) ListTransactionsForMonth(ctx context.Context, year int, month time.Month) []core.Transaction {
	return s.windowTransactions(ctx, core.MonthWindow(year, month))
}

// GetSummary reduces all stored transactions to overall totals.
func (s *Service) GetSummary(ctx context.Context) core.Summary {
	return core.Summarize(s.ListTransactions(ctx))
}

// GetSummaryForWindow reduces one window's transactions to totals.
func (s *Service) GetSummaryForWindow(ctx context.Context, w core.Window) core.Summary {
	return core.Summarize(s.windowTransactions(ctx, w))
}

// GetStats computes the category statistics view for a window.
func (s *Service) GetStats(ctx context.Context, w core.Window) core.StatsReport {
	return core.BuildStatsReport(s.windowTransactions(ctx, w), w)
}

// GetCalendarData buckets one month's transactions by calendar day.
func (s *Service) GetCalendarData(ctx context.Context, year int, month time.Month) map[string]*core.DayData {
	w := core.MonthWindow(year, month)
	return core.BucketByDay(s.windowTransactions(ctx, w))
}

func (s *Service) windowTransactions(ctx context.Context, w core.Window) []core.Transaction {
	transactions, err := s.store.ListTransactionsInRange(ctx, w.Start, w.End)
	if err != nil {
		slog.ErrorContext(ctx, "Range query failed, returning empty result",
			"error", err,
			"start", w.Start,
			"end", w.End)
		return nil
	}
	return transactions
}

func (s *Service) publishSync(ctx context.Context, id string) {
	if s.pub == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping sync message", "id", id)
		return
	}
	if err := s.pub.PublishTransactionSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
}
