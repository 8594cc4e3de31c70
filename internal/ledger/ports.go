package ledger

import (
	"context"
	"time"

	"tracker/internal/core"
)

// Ports consumed by the service layer.
type (
	// Store is the persistent transaction store.
	Store interface {
		CreateTransaction(ctx context.Context, t core.Transaction) error
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		// ListTransactionsInRange returns transactions with
		// start <= occurred_at < end.
		ListTransactionsInRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error)
	}

	// EventPublisher notifies the export pipeline about writes.
	EventPublisher interface {
		PublishTransactionSync(ctx context.Context, id string) error
		PublishTransactionDelete(ctx context.Context, id string) error
	}
)
