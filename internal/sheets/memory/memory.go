package memory

import (
	"context"
	"fmt"
	"sync"

	"tracker/internal/core"
	ports "tracker/internal/sheets"
)

// Store is an in-memory Exporter used in tests and when no spreadsheet is
// configured. Rows are keyed by transaction id like the real sheet.
type Store struct {
	mu    sync.Mutex
	order []string
	rows  map[string]core.Transaction
}

var _ ports.Exporter = (*Store)(nil)

func New() *Store {
	return &Store{rows: make(map[string]core.Transaction)}
}

func (s *Store) ExportTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.rows[t.ID] = t
	for i, id := range s.order {
		if id == t.ID {
			return fmt.Sprintf("mem:%d", i+1), nil
		}
	}
	return "", fmt.Errorf("row for %s lost", t.ID)
}

func (s *Store) RemoveTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return nil
	}
	delete(s.rows, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Rows returns the exported transactions in row order.
func (s *Store) Rows() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rows[id])
	}
	return out
}
