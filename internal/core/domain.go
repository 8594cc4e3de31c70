package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind classifies a transaction as income or expense.
	Kind string

	// Transaction is the single persisted entity. Amounts are stored in
	// cents and OccurredAt is always a UTC-midnight calendar date.
	Transaction struct {
		ID          string    `json:"id"`
		Kind        Kind      `json:"kind"`
		Amount      Money     `json:"amount"`
		Category    string    `json:"category"`
		Description string    `json:"description,omitempty"`
		ImageURL    string    `json:"imageUrl,omitempty"`
		OccurredAt  time.Time `json:"occurredAt"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}
)

// Suggested categories per kind. The write boundary validates against these
// sets so statistics never fragment over near-duplicate labels.
var (
	IncomeCategories = []string{
		"Salary",
		"Business",
		"Investment",
		"Gift",
		"Other Income",
	}

	ExpenseCategories = []string{
		"Food & Dining",
		"Transportation",
		"Shopping",
		"Entertainment",
		"Bills & Utilities",
		"Healthcare",
		"Education",
		"Travel",
		"Other Expense",
	}
)

var (
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrUnknownCategory  = errors.New("unknown category for kind")
	ErrDescriptionLimit = errors.New("description too long (max 200 characters)")
)

func (k Kind) IsValid() bool {
	return k == Income || k == Expense
}

// CategoriesFor returns the suggested category set for a kind.
func CategoriesFor(k Kind) []string {
	if k == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

// NewDate builds the canonical UTC-midnight instant for a calendar date.
// Reconstructing from year/month/day fields keeps a transaction dated
// "Oct 31" inside October regardless of the server's local offset.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf normalizes an arbitrary instant to its UTC-midnight calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// DateKey renders the calendar-date bucket key (YYYY-MM-DD).
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (t Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.OccurredAt.IsZero() {
		return ErrInvalidDate
	}
	cat := strings.TrimSpace(t.Category)
	if cat == "" {
		return ErrEmptyCategory
	}
	known := false
	for _, c := range CategoriesFor(t.Kind) {
		if c == cat {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownCategory
	}
	if len(t.Description) > 200 {
		return ErrDescriptionLimit
	}
	return nil
}
