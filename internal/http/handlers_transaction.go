package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/storage"
)

// transactionRequest is the write payload. Amount is either an integer
// number of cents or a quoted decimal string.
type transactionRequest struct {
	Kind        string          `json:"kind"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Date        string          `json:"date"`
}

func (s *Server) decodeTransaction(r *http.Request) (core.Transaction, error) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return core.Transaction{}, errors.New("invalid request body")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	occurredAt, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	return core.Transaction{
		Kind:        core.Kind(strings.TrimSpace(req.Kind)),
		Amount:      amount,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		ImageURL:    sanitizeInput(req.ImageURL),
		OccurredAt:  occurredAt,
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	draft, err := s.decodeTransaction(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, writeResult{Success: false, Error: err.Error()})
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), draft)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if !isValidationError(err) {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Create transaction failed", "error", err)
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, writeResult{Success: false, Error: err.Error()})
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusCreated, writeResult{Success: true, Transaction: &created})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, writeResult{Success: false, Error: "missing transaction id"})
		return
	}

	t, err := s.decodeTransaction(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, writeResult{Success: false, Error: err.Error()})
		return
	}
	t.ID = id

	if err := s.ledger.UpdateTransaction(r.Context(), t); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeJSON(w, http.StatusNotFound, writeResult{Success: false, Error: "transaction not found"})
		case isValidationError(err):
			writeJSON(w, http.StatusUnprocessableEntity, writeResult{Success: false, Error: err.Error()})
		default:
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Update transaction failed", "error", err, "id", id)
			writeJSON(w, http.StatusInternalServerError, writeResult{Success: false, Error: err.Error()})
		}
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, writeResult{Success: true, Transaction: &t})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, writeResult{Success: false, Error: "missing transaction id"})
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, writeResult{Success: false, Error: "transaction not found"})
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Delete transaction failed", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, writeResult{Success: false, Error: err.Error()})
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, writeResult{Success: true})
}

// handleListTransactions returns all transactions, or one month's worth
// when year/month query parameters are present.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var transactions []core.Transaction
	if r.URL.Query().Has("year") || r.URL.Query().Has("month") {
		year, month := parseYearMonth(r)
		transactions = s.ledger.ListTransactionsForMonth(r.Context(), year, month)
	} else {
		transactions = s.ledger.ListTransactions(r.Context())
	}

	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidKind,
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrEmptyCategory,
		core.ErrUnknownCategory,
		core.ErrDescriptionLimit,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
