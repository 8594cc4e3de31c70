package sheets

import (
	"context"

	"tracker/internal/core"
)

// Exporter is the outbound port for the backup spreadsheet. Rows are
// keyed by transaction id so re-exports of an updated transaction replace
// the earlier row.
type Exporter interface {
	// ExportTransaction appends or replaces the row for a transaction
	// and returns a backend-specific row reference.
	ExportTransaction(ctx context.Context, t core.Transaction) (rowRef string, err error)

	// RemoveTransaction deletes the row for a transaction id. Removing
	// an id that was never exported is not an error.
	RemoveTransaction(ctx context.Context, id string) error
}
