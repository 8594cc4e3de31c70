package worker

import (
	"context"
	"errors"
	"testing"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/sheets/memory"
	"tracker/internal/storage"
)

type fakeStore struct {
	txs       map[string]core.Transaction
	pending   []string
	synced    []string
	errored   []string
	loadErr   error
	markFails bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{txs: make(map[string]core.Transaction)}
}

func (s *fakeStore) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	if s.loadErr != nil {
		return core.Transaction{}, s.loadErr
	}
	tx, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, storage.ErrNotFound
	}
	return tx, nil
}

func (s *fakeStore) GetPendingSync(_ context.Context, limit int) ([]string, error) {
	if limit < len(s.pending) {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *fakeStore) MarkSynced(_ context.Context, id string) error {
	if s.markFails {
		return errors.New("mark failed")
	}
	s.synced = append(s.synced, id)
	return nil
}

func (s *fakeStore) MarkSyncError(_ context.Context, id string) error {
	s.errored = append(s.errored, id)
	return nil
}

func stored(id string) core.Transaction {
	return core.Transaction{
		ID:         id,
		Kind:       core.Income,
		Amount:     core.Money{Cents: 10000},
		Category:   "Salary",
		OccurredAt: core.NewDate(2024, 3, 1),
	}
}

func TestHandleSyncEventExportsAndMarks(t *testing.T) {
	store := newFakeStore()
	store.txs["t1"] = stored("t1")
	exporter := memory.New()
	w := NewExportWorker(store, exporter, 10)

	event := amqp.NewSyncEvent("t1")
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(exporter.Rows()) != 1 {
		t.Fatalf("rows = %d, want 1", len(exporter.Rows()))
	}
	if len(store.synced) != 1 || store.synced[0] != "t1" {
		t.Fatalf("synced = %v", store.synced)
	}
}

func TestHandleSyncEventMissingTransactionIsSkipped(t *testing.T) {
	store := newFakeStore()
	w := NewExportWorker(store, memory.New(), 10)

	if err := w.HandleEvent(context.Background(), amqp.NewSyncEvent("gone")); err != nil {
		t.Fatalf("missing transaction should not error: %v", err)
	}
	if len(store.errored) != 0 {
		t.Fatalf("errored = %v, want none", store.errored)
	}
}

func TestHandleSyncEventStorageFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("db locked")
	w := NewExportWorker(store, memory.New(), 10)

	if err := w.HandleEvent(context.Background(), amqp.NewSyncEvent("t1")); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestHandleDeleteEventRemovesRow(t *testing.T) {
	store := newFakeStore()
	store.txs["t1"] = stored("t1")
	exporter := memory.New()
	w := NewExportWorker(store, exporter, 10)

	ctx := context.Background()
	if err := w.HandleEvent(ctx, amqp.NewSyncEvent("t1")); err != nil {
		t.Fatal(err)
	}
	if err := w.HandleEvent(ctx, amqp.NewDeleteEvent("t1")); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if len(exporter.Rows()) != 0 {
		t.Fatalf("rows after delete = %d, want 0", len(exporter.Rows()))
	}
}

func TestHandleEventUnknownKind(t *testing.T) {
	w := NewExportWorker(newFakeStore(), memory.New(), 10)
	event := &amqp.TransactionEvent{Event: "vanish", ID: "t1"}
	if err := w.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected error for unknown event kind")
	}
}

func TestProcessPendingExportsBatch(t *testing.T) {
	store := newFakeStore()
	store.txs["a"] = stored("a")
	store.txs["b"] = stored("b")
	store.pending = []string{"a", "b", "missing"}
	exporter := memory.New()
	w := NewExportWorker(store, exporter, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if len(exporter.Rows()) != 2 {
		t.Fatalf("rows = %d, want 2", len(exporter.Rows()))
	}
	// The unloadable id is marked errored, not retried forever.
	if len(store.errored) != 1 || store.errored[0] != "missing" {
		t.Fatalf("errored = %v", store.errored)
	}
}

func TestProcessPendingRespectsBatchSize(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"a", "b", "c"} {
		store.txs[id] = stored(id)
		store.pending = append(store.pending, id)
	}
	exporter := memory.New()
	w := NewExportWorker(store, exporter, 2)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(exporter.Rows()) != 2 {
		t.Fatalf("rows = %d, want 2 (batch size)", len(exporter.Rows()))
	}
}

func TestExportFailureMarksError(t *testing.T) {
	store := newFakeStore()
	bad := stored("t1")
	bad.Amount.Cents = 0
	store.txs["t1"] = bad
	w := NewExportWorker(store, memory.New(), 10)

	if err := w.HandleEvent(context.Background(), amqp.NewSyncEvent("t1")); err == nil {
		t.Fatal("expected export error")
	}
	if len(store.errored) != 1 || store.errored[0] != "t1" {
		t.Fatalf("errored = %v", store.errored)
	}
}
